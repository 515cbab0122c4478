package capitalist

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// JsonPrint writes v as indented JSON followed by a newline.
func JsonPrint(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling: %v", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", string(b))
	return err
}

func ContentHash(b []byte) uint64 {
	return xxh3.Hash(b)
}

// ETag renders a weak entity tag for a response body.
func ETag(b []byte) string {
	return fmt.Sprintf(`W/"%016x"`, ContentHash(b))
}

func NewEvent(eventType, code string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Code:      code,
		CreatedAt: time.Now().UTC(),
	}
}
