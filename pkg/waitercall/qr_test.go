package waitercall_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapmenu/tapmenu/pkg/waitercall"
)

func TestTableCallURL(t *testing.T) {
	t.Parallel()

	tableID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	t.Run("builds the public call url", func(t *testing.T) {
		t.Parallel()

		u, err := waitercall.TableCallURL("https://menu.example.com/call", tableID)

		require.NoError(t, err)
		assert.Equal(t, "https://menu.example.com/call/tables/6ba7b810-9dad-11d1-80b4-00c04fd430c8/call", u)
	})

	t.Run("requires a base url", func(t *testing.T) {
		t.Parallel()

		_, err := waitercall.TableCallURL("", tableID)

		assert.Error(t, err)
	})
}

func TestTableQR(t *testing.T) {
	t.Parallel()

	png, err := waitercall.TableQR("https://menu.example.com", uuid.New(), 256)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
