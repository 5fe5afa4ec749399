package render

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexDumpPreviewMatchesCanonicalDump(t *testing.T) {
	data := []byte("Hello, shell world! \x00\x01\x02")

	preview := HexDumpPreview(data, len(data))

	require.Equal(t, strings.TrimRight(hex.Dump(data), "\n"), preview)
}

func TestHexDumpPreviewSummarizesElidedBytes(t *testing.T) {
	data := make([]byte, 40)
	for dataIndex := range data {
		data[dataIndex] = byte(dataIndex)
	}

	preview := HexDumpPreview(data, 16)

	expectedDump := strings.TrimRight(hex.Dump(data[:16]), "\n")
	require.Equal(t, expectedDump+"\n... (24 more bytes)", preview)
}

func TestHexDumpPreviewZeroLimitUsesDefault(t *testing.T) {
	data := []byte{0xde, 0xad, 0xbe, 0xef}

	preview := HexDumpPreview(data, 0)

	require.Equal(t, strings.TrimRight(hex.Dump(data), "\n"), preview)
}
