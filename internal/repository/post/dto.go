package post

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"strconv"
	"time"

	dompost "github.com/curio-social/semgraph/internal/domain/post"
)

// Hash field names. "vector" is the binary blob the FT index reads;
// "embedding" is the raw JSON form the codec decodes on the scan path.
const (
	fieldTitle     = "title"
	fieldContent   = "content"
	fieldImageURL  = "image_url"
	fieldAuthorID  = "author_id"
	fieldCreatedAt = "created_at"
	fieldEmbedding = "embedding"
	fieldVector    = "vector"
)

func buildFields(p dompost.Post, vec []float32) map[string]string {
	fields := map[string]string{
		fieldTitle:     p.Title(),
		fieldContent:   p.Content(),
		fieldImageURL:  p.ImageURL(),
		fieldAuthorID:  p.AuthorID(),
		fieldCreatedAt: strconv.FormatInt(p.CreatedAt().Unix(), 10),
	}

	if vec != nil {
		fields[fieldVector] = vectorToBlob(vec)
		if raw, err := json.Marshal(vec); err == nil {
			fields[fieldEmbedding] = string(raw)
		}
	} else if p.RawEmbedding() != "" {
		fields[fieldEmbedding] = p.RawEmbedding()
	}

	return fields
}

func parseFields(id string, fields map[string]string) dompost.Post {
	var createdAt time.Time
	if ts, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64); err == nil {
		createdAt = time.Unix(ts, 0).UTC()
	}

	return dompost.Reconstruct(
		id,
		fields[fieldTitle],
		fields[fieldContent],
		fields[fieldImageURL],
		fields[fieldAuthorID],
		createdAt,
		fields[fieldEmbedding],
	)
}

// vectorToBlob serializes []float32 into the little-endian blob FT indexes.
func vectorToBlob(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
