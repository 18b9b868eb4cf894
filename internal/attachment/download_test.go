package attachment

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
	"github.com/noah-isme/intranet-portal-client/pkg/storage"
)

func TestSaveToWritesDecodedContent(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := SaveTo(store, FromBytes("minutes.txt", []byte("agenda")))
	require.NoError(t, err)
	assert.Equal(t, "minutes.txt", name)

	data, err := os.ReadFile(store.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "agenda", string(data))
}

func TestSaveToWithoutContent(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = SaveTo(store, models.AttachmentPayload{Filename: "a.pdf", SizeBytes: 10})
	assert.True(t, errors.Is(err, appErrors.ErrEncoding))
}
