package discover_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelkit/discover"
)

const models = `package models

type Author struct{ ID int }

func (Author) EntityType() string { return "Author" }
func (a Author) EntityID() any    { return a.ID }

type Post struct{ ID int }

func (*Post) EntityType() string { return "Post" }
func (p *Post) EntityID() any    { return p.ID }

// Half has only one of the methods.
type Half struct{}

func (Half) EntityType() string { return "Half" }

// Wrong returns the wrong types.
type Wrong struct{}

func (Wrong) EntityType() int { return 0 }
func (Wrong) EntityID() any   { return 0 }

type Entity interface {
	EntityType() string
	EntityID() any
}

type Alias = Author
`

const tags = `package tags

type Tag struct{ Name string }

func (Tag) EntityType() string  { return "Tag" }
func (t Tag) EntityID() interface{} { return t.Name }
`

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files["go.mod"] = "module example.com/blog\n\ngo 1.24\n"
	for name, src := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	return dir
}

func TestModels(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"models/models.go":    models,
		"models/tags/tags.go": tags,
	})
	names, err := discover.Models(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"example.com/blog/models.Author",
		"example.com/blog/models.Post",
		"example.com/blog/models/tags.Tag",
	}, names)

	names, err = discover.Models(context.Background(), dir, "./models/tags")
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com/blog/models/tags.Tag"}, names)
}

func TestModelsErrors(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"models/models.go": "package models\n\nfunc broken( {}\n",
	})
	_, err := discover.Models(context.Background(), dir)
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	dir := writeModule(t, map[string]string{"models/models.go": models})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan []string, 8)
	done := make(chan error, 1)
	go func() {
		done <- discover.Watch(ctx, dir, func(names []string, err error) {
			if err == nil {
				results <- names
			}
		})
	}()

	wait := func() []string {
		select {
		case names := <-results:
			return names
		case <-time.After(30 * time.Second):
			t.Fatal("timed out waiting for discovery")
			return nil
		}
	}
	assert.Len(t, wait(), 2)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "comment.go"), []byte(`package models

type Comment struct{ ID int }

func (Comment) EntityType() string { return "Comment" }
func (c Comment) EntityID() any    { return c.ID }
`), 0o644))
	assert.Contains(t, wait(), "example.com/blog/models.Comment")

	cancel()
	require.NoError(t, <-done)
}
