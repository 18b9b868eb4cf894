package attachment

import (
	"fmt"

	"github.com/noah-isme/intranet-portal-client/internal/models"
	"github.com/noah-isme/intranet-portal-client/pkg/storage"
)

// SaveTo decodes p and writes it into store, returning the stored name.
func SaveTo(store *storage.LocalStorage, p models.AttachmentPayload) (string, error) {
	data, err := Content(p)
	if err != nil {
		return "", err
	}
	name := p.Filename
	if name == "" {
		name = "attachment"
	}
	saved, err := store.Save(name, data)
	if err != nil {
		return "", fmt.Errorf("save attachment: %w", err)
	}
	return saved, nil
}
