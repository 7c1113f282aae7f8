package storage

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enquiry-service/internal/domain"
)

func pngBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestSave_WritesJPEGUnderDPs(t *testing.T) {
	s := NewImageStore(t.TempDir(), "/storage/")

	rel, err := s.Save(pngBase64(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "dps/"))
	assert.True(t, strings.HasSuffix(rel, ".jpg"))
	assert.True(t, s.Exists(rel))

	b, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	_, format, err := image.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	_, err = jpeg.DecodeConfig(bytes.NewReader(b))
	assert.NoError(t, err)
	assert.Equal(t, "/storage/"+rel, s.URL(rel))
}

func TestSave_AcceptsDataURI(t *testing.T) {
	s := NewImageStore(t.TempDir(), "/storage")
	rel, err := s.Save("data:image/png;base64," + pngBase64(t))
	require.NoError(t, err)
	assert.True(t, s.Exists(rel))
}

func TestSave_UniqueNames(t *testing.T) {
	s := NewImageStore(t.TempDir(), "/storage")
	p := pngBase64(t)
	a, err := s.Save(p)
	require.NoError(t, err)
	b, err := s.Save(p)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSave_DecodeErrors(t *testing.T) {
	s := NewImageStore(t.TempDir(), "/storage")
	for name, payload := range map[string]string{
		"not base64":   "%%%not-base64%%%",
		"not an image": base64.StdEncoding.EncodeToString([]byte("hello world")),
		"empty":        "",
		"bad data uri": "data:image/png,abc",
	} {
		_, err := s.Save(payload)
		assert.True(t, errors.Is(err, domain.ErrDecode), name)
	}
	entries, _ := os.ReadDir(filepath.Join(s.Root, DPDir))
	assert.Empty(t, entries)
}

// pngHeader 只写签名和 IHDR，声明任意宽高而不分配像素
func pngHeader(w, h uint32) []byte {
	data := make([]byte, 13)
	binary.BigEndian.PutUint32(data[0:], w)
	binary.BigEndian.PutUint32(data[4:], h)
	data[8] = 8 // bit depth，color type 0 = 灰度

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
	chunk := append([]byte("IHDR"), data...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestSave_RejectsOversizedDimensions(t *testing.T) {
	s := NewImageStore(t.TempDir(), "/storage")

	cfg, err := png.DecodeConfig(bytes.NewReader(pngHeader(12000, 12000)))
	require.NoError(t, err)
	require.Equal(t, 12000, cfg.Width)

	_, err = s.Save(base64.StdEncoding.EncodeToString(pngHeader(12000, 12000)))
	assert.ErrorIs(t, err, domain.ErrDecode)

	_, err = s.Save(base64.StdEncoding.EncodeToString(pngHeader(MaxPixels, 2)))
	assert.ErrorIs(t, err, domain.ErrDecode)

	entries, _ := os.ReadDir(filepath.Join(s.Root, DPDir))
	assert.Empty(t, entries)
}

func TestDelete(t *testing.T) {
	s := NewImageStore(t.TempDir(), "/storage")
	rel, err := s.Save(pngBase64(t))
	require.NoError(t, err)

	require.NoError(t, s.Delete(rel))
	assert.False(t, s.Exists(rel))

	// 再删一次 / 空路径都不是错误
	assert.NoError(t, s.Delete(rel))
	assert.NoError(t, s.Delete(""))
}

func TestDelete_RejectsTraversal(t *testing.T) {
	s := NewImageStore(t.TempDir(), "/storage")
	assert.ErrorIs(t, s.Delete("../../etc/passwd"), ErrOutsideRoot)
}
