package memstore_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/modelkit"
	"github.com/syssam/modelkit/memstore"
	"github.com/syssam/modelkit/relation"
)

func TestStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	author := modelkit.NewRef("Author", 1)
	post := modelkit.NewRef("Post", 42)

	s := memstore.New()
	s.Relate(author, "posts", post)

	t.Run("Get", func(t *testing.T) {
		e, err := s.Get(ctx, "Post", 42)
		require.NoError(t, err)
		assert.Equal(t, post, e)

		_, err = s.Get(ctx, "Post", 1)
		assert.True(t, modelkit.IsNotFound(err))
	})

	t.Run("ResolveAndFind", func(t *testing.T) {
		acc, err := s.ResolveAssociation(ctx, author, "posts")
		require.NoError(t, err)
		assert.Equal(t, "posts", acc.Association())
		assert.Equal(t, author, acc.Source())

		e, err := s.FindInAccessor(ctx, acc, 42)
		require.NoError(t, err)
		assert.Equal(t, post, e)

		_, err = s.FindInAccessor(ctx, acc, 43)
		assert.True(t, modelkit.IsNotFound(err))
	})

	t.Run("UnknownAssociation", func(t *testing.T) {
		_, err := s.ResolveAssociation(ctx, author, "comments")
		assert.True(t, modelkit.IsUnknownAssociation(err))
	})
}

func TestDeclare(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := memstore.New()
	s.Declare("Author", "posts")

	acc, err := s.ResolveAssociation(ctx, modelkit.NewRef("Author", 2), "posts")
	require.NoError(t, err)
	_, err = s.FindInAccessor(ctx, acc, 1)
	assert.True(t, modelkit.IsNotFound(err))
}

func TestUnrelate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	author := modelkit.NewRef("Author", 1)
	post := modelkit.NewRef("Post", 42)
	s := memstore.New()
	s.Relate(author, "posts", post)
	s.Unrelate(author, "posts", post)

	acc, err := s.ResolveAssociation(ctx, author, "posts")
	require.NoError(t, err)
	_, err = s.FindInAccessor(ctx, acc, 42)
	assert.True(t, modelkit.IsNotFound(err))
}

type foreignAccessor struct{}

func (foreignAccessor) Source() modelkit.Entity { return modelkit.NewRef("Author", 1) }
func (foreignAccessor) Association() string     { return "posts" }

func TestForeignAccessor(t *testing.T) {
	t.Parallel()
	_, err := memstore.New().FindInAccessor(context.Background(), foreignAccessor{}, 1)
	assert.True(t, modelkit.IsUnknownAssociation(err))
}

func TestConcurrentChecks(t *testing.T) {
	t.Parallel()
	s := memstore.New()
	author := modelkit.NewRef("Author", 1)
	for i := 1; i <= 50; i++ {
		s.Relate(author, "posts", modelkit.NewRef("Post", i))
	}
	v := relation.New(s)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, v.AreRelated(context.Background(), relation.Chain(author, modelkit.NewRef("Post", i))...))
		}()
	}
	wg.Wait()
}
