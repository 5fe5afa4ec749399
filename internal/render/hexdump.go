package render

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// HexDumpPreview renders the leading bytes of data in canonical hex dump form,
// sixteen bytes per row with an ASCII gutter. Data beyond maximumBytes is
// summarized by a trailing notice instead of being dumped.
func HexDumpPreview(data []byte, maximumBytes int) string {
	if maximumBytes <= 0 {
		maximumBytes = defaultMaximumPreviewBytesConstant
	}

	previewData := data
	elidedByteCount := 0
	if len(previewData) > maximumBytes {
		elidedByteCount = len(previewData) - maximumBytes
		previewData = previewData[:maximumBytes]
	}

	var dumpBuilder strings.Builder
	dumpWriter := hex.Dumper(&dumpBuilder)
	_, _ = dumpWriter.Write(previewData)
	_ = dumpWriter.Close()

	renderedDump := strings.TrimRight(dumpBuilder.String(), newlineConstant)
	if elidedByteCount > 0 {
		renderedDump += newlineConstant + fmt.Sprintf(truncationNoticeTemplateConstant, elidedByteCount)
	}
	return renderedDump
}
