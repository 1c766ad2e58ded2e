package barcode

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"sync"

	"golang.org/x/text/cases"

	"gopress/internal/pdfengine"
)

// Kind identifies a barcode symbology.
type Kind int

const (
	KindDataMatrix Kind = iota
	KindQRCode
)

func (k Kind) String() string {
	switch k {
	case KindDataMatrix:
		return "datamatrix"
	case KindQRCode:
		return "qr_code"
	default:
		return "unknown"
	}
}

var fold = cases.Fold()

// ParseKind matches a block property value to a Kind, case-insensitively.
func ParseKind(name string) (Kind, error) {
	switch fold.String(name) {
	case "datamatrix":
		return KindDataMatrix, nil
	case "qr_code", "qrcode":
		return KindQRCode, nil
	default:
		return 0, fmt.Errorf("unsupported barcode type: %s", name)
	}
}

// Encoder renders payload data into a raster image.
type Encoder func(data string) (image.Image, error)

var (
	encodersMu sync.RWMutex
	encoders   = make(map[Kind]Encoder)
)

// RegisterEncoder installs the encoder for a symbology. Later registrations
// replace earlier ones.
func RegisterEncoder(kind Kind, encoder Encoder) {
	encodersMu.Lock()
	defer encodersMu.Unlock()
	encoders[kind] = encoder
}

// Encode renders data with the registered encoder for kind.
func Encode(kind Kind, data string) (image.Image, error) {
	encodersMu.RLock()
	encoder := encoders[kind]
	encodersMu.RUnlock()
	if encoder == nil {
		return nil, fmt.Errorf("no %s encoder registered", kind)
	}
	return encoder(data)
}

// Generator publishes encoded barcodes as engine virtual files. One
// generator belongs to one worker session; payloads are encoded and
// published at most once.
type Generator struct {
	session   pdfengine.Session
	published map[string]string
}

// NewGenerator builds a generator bound to a worker's session.
func NewGenerator(session pdfengine.Session) *Generator {
	return &Generator{session: session, published: make(map[string]string)}
}

// VirtualPath encodes data with the given symbology, publishes the PNG
// under a stable virtual path, and returns that path. Repeated calls with
// the same kind and data reuse the published file.
func (g *Generator) VirtualPath(kind Kind, data string) (string, error) {
	key := fmt.Sprintf("%d:%s", kind, data)
	if path, ok := g.published[key]; ok {
		return path, nil
	}

	img, err := Encode(kind, data)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode %s raster: %w", kind, err)
	}

	sum := sha1.Sum([]byte(key))
	path := "/pvf/barcode/" + hex.EncodeToString(sum[:]) + ".png"
	if err := g.session.CreateVirtualFile(path, buf.Bytes()); err != nil {
		return "", err
	}
	g.published[key] = path
	return path, nil
}
