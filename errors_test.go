package modelkit_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/modelkit"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := modelkit.NewNotFoundError("Post")
		assert.Equal(t, "modelkit: Post not found", err.Error())
	})

	t.Run("ErrorWithID", func(t *testing.T) {
		err := modelkit.NewNotFoundErrorWithID("Post", 42)
		assert.Equal(t, "modelkit: Post not found (id=42)", err.Error())
		assert.Equal(t, 42, err.ID())
		assert.Equal(t, "Post", err.Label())
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := modelkit.NewNotFoundError("Comment")
		assert.True(t, errors.Is(err, modelkit.ErrNotFound))
		assert.True(t, modelkit.IsNotFound(err))
		assert.True(t, modelkit.IsNotFound(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, modelkit.IsNotFound(modelkit.ErrNotFound))
		assert.False(t, modelkit.IsNotFound(errors.New("other error")))
		assert.False(t, modelkit.IsNotFound(nil))
	})
}

func TestUnknownAssociationError(t *testing.T) {
	err := modelkit.NewUnknownAssociationError("Author", "postz")
	assert.Equal(t, `modelkit: Author has no association "postz"`, err.Error())
	assert.True(t, errors.Is(err, modelkit.ErrUnknownAssociation))
	assert.True(t, modelkit.IsUnknownAssociation(fmt.Errorf("resolve: %w", err)))
	assert.False(t, modelkit.IsUnknownAssociation(modelkit.ErrNotFound))
	assert.False(t, modelkit.IsUnknownAssociation(nil))
}

func TestNoAutoIncrementError(t *testing.T) {
	err := &modelkit.NoAutoIncrementError{Table: "users"}
	assert.Equal(t, `modelkit: unable to retrieve next auto-increment id for table "users"`, err.Error())
	assert.True(t, errors.Is(err, modelkit.ErrNoAutoIncrement))
	assert.True(t, modelkit.IsNoAutoIncrement(fmt.Errorf("next id: %w", err)))
	assert.False(t, modelkit.IsNoAutoIncrement(nil))
}

func TestQueryError(t *testing.T) {
	inner := errors.New("connection refused")

	t.Run("WithOp", func(t *testing.T) {
		err := modelkit.NewQueryError("posts", "find", inner)
		assert.Equal(t, "modelkit: querying posts (find): connection refused", err.Error())
		assert.ErrorIs(t, err, inner)
	})

	t.Run("WithoutOp", func(t *testing.T) {
		err := modelkit.NewQueryError("posts", "", inner)
		assert.Equal(t, "modelkit: querying posts: connection refused", err.Error())
	})

	t.Run("IsQueryError", func(t *testing.T) {
		assert.True(t, modelkit.IsQueryError(fmt.Errorf("x: %w", modelkit.NewQueryError("a", "b", inner))))
		assert.False(t, modelkit.IsQueryError(inner))
		assert.False(t, modelkit.IsQueryError(nil))
	})
}
