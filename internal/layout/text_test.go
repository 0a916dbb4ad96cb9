package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a\nb\nc d", Sanitize("a\r\nb\rc\td"))
	assert.Equal(t, "bell", Sanitize("be\x07ll"))
	// Decomposed é becomes the single precomposed rune.
	assert.Equal(t, "é", Sanitize("é"))
}

func TestLatin1Text_Normalize(t *testing.T) {
	var tn Latin1Text

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"smart quotes", "“Hola” ‘x’", `"Hola" 'x'`},
		{"dashes", "a — b – c", "a - b - c"},
		{"ellipsis", "fin…", "fin..."},
		{"bullets", "• uno", "- uno"},
		{"spanish letters kept", "Ñandú, María, Examen Físico", "Ñandú, María, Examen Físico"},
		{"unencodable becomes placeholder", "日本 ok", "?? ok"},
		{"control characters", "uno\tdos\r\ntres", "uno dos\ntres"},
		{"middle dot kept", "a · b", "a · b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tn.Normalize(tt.in))
		})
	}
}

func TestLatin1Text_Encode(t *testing.T) {
	var tn Latin1Text
	assert.Equal(t, "\xf1", tn.Encode("ñ"))
	assert.Equal(t, "abc", tn.Encode("abc"))
	assert.Equal(t, "?", tn.Encode("日"))
	assert.False(t, tn.Unicode())
}

func TestUnicodeText(t *testing.T) {
	var tn UnicodeText
	assert.Equal(t, "日本 “x”", tn.Normalize("日本\t“x”"))
	assert.Equal(t, "日本", tn.Encode("日本"))
	assert.True(t, tn.Unicode())
}

func TestSelectNormalizer(t *testing.T) {
	dir := t.TempDir()
	ttf := filepath.Join(dir, "DejaVuSans.ttf")
	require.NoError(t, os.WriteFile(ttf, []byte("font"), 0o600))
	otf := filepath.Join(dir, "font.otf")
	require.NoError(t, os.WriteFile(otf, []byte("font"), 0o600))

	assert.IsType(t, Latin1Text{}, SelectNormalizer(""))
	assert.IsType(t, Latin1Text{}, SelectNormalizer(filepath.Join(dir, "missing.ttf")))
	assert.IsType(t, Latin1Text{}, SelectNormalizer(otf))
	assert.IsType(t, Latin1Text{}, SelectNormalizer(dir))
	assert.IsType(t, UnicodeText{}, SelectNormalizer(ttf))
}
