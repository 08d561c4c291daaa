package mem

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	assert.Nil(t, s.Set(ctx, "/checkpoint/", "t1", []byte("snap")))
	assert.Nil(t, s.Set(ctx, "/record/e1", "a.1", []byte("r1")))
	assert.Nil(t, s.Set(ctx, "/record/e1", "b.1", []byte("r2")))

	b, err := s.Get(ctx, "/checkpoint/", "t1")
	assert.Nil(t, err)
	assert.Equal(t, []byte("snap"), b)

	// unknown key yields nil bytes, not an error
	b, err = s.Get(ctx, "/checkpoint/", "t2")
	assert.Nil(t, err)
	assert.Nil(t, b)

	keys := make([]string, 0)
	assert.Nil(t, s.List(ctx, "/record/e1", func(key string) bool {
		keys = append(keys, key)
		return true
	}))
	assert.ElementsMatch(t, []string{"a.1", "b.1"}, keys)

	// the prefix is a namespace, not a substring match
	keys = keys[:0]
	assert.Nil(t, s.List(ctx, "/record/e2", func(key string) bool {
		keys = append(keys, key)
		return true
	}))
	assert.Empty(t, keys)

	assert.Nil(t, s.Remove(ctx, "/checkpoint/", "t1"))
	b, err = s.Get(ctx, "/checkpoint/", "t1")
	assert.Nil(t, err)
	assert.Nil(t, b)
}

func TestMemStoreListStopsEarly(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	for i := 0; i < 5; i++ {
		assert.Nil(t, s.Set(ctx, "/record/e1", fmt.Sprintf("k%d", i), []byte("v")))
	}

	seen := 0
	assert.Nil(t, s.List(ctx, "/record/e1", func(key string) bool {
		seen++
		return seen < 2
	}))
	assert.Equal(t, 2, seen)
}

func TestMemStoreErrHandler(t *testing.T) {
	ctx := context.Background()
	s := NewMemStoreWithErrHandler(func() error {
		return fmt.Errorf("disk on fire")
	})

	assert.NotNil(t, s.Set(ctx, "/checkpoint/", "t1", []byte("snap")))
	_, err := s.Get(ctx, "/checkpoint/", "t1")
	assert.NotNil(t, err)
}
