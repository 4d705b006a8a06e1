package waitercall

import (
	"errors"
	"net/url"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// TableCallURL builds the public waiter-call URL printed on a table's
// QR sticker.
func TableCallURL(baseURL string, tableID uuid.UUID) (string, error) {
	if baseURL == "" {
		return "", errors.New("waitercall: base URL is required")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	return u.JoinPath("tables", tableID.String(), "call").String(), nil
}

// TableQR renders the table's waiter-call URL as a PNG QR code of the
// given pixel size.
func TableQR(baseURL string, tableID uuid.UUID, size int) ([]byte, error) {
	callURL, err := TableCallURL(baseURL, tableID)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(callURL, qrcode.Medium, size)
}
