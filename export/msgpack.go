package export

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"gridpath/scenario"
)

// MsgpackExporter exports reports to MessagePack. Field names match the
// JSON exporter.
type MsgpackExporter struct{}

// NewMsgpackExporter creates a new MessagePack exporter
func NewMsgpackExporter() *MsgpackExporter {
	return &MsgpackExporter{}
}

// Export encodes the report. Maps are written with sorted keys so equal
// reports encode to equal bytes.
func (e *MsgpackExporter) Export(r *scenario.Report) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("report is nil")
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(newReportDoc(r)); err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return buf.Bytes(), nil
}

// GetFileExtension returns the file extension for MessagePack
func (e *MsgpackExporter) GetFileExtension() string {
	return ".msgpack"
}

// GetFormatName returns the format name
func (e *MsgpackExporter) GetFormatName() string {
	return "MessagePack"
}
