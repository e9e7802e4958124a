// Package codec 把持久化快照编码成存储用的字节：JSON，可选 zstd 压缩。
// 解码时按魔数识别是否压缩，开关切换前后写入的存档都能读。
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"Dawnforge/internal/settlement/entity"
	"Dawnforge/internal/settlement/errs"
)

const (
	OpEncode = "codec.Encode"
	OpDecode = "codec.Decode"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	encOnce sync.Once
	encoder *zstd.Encoder
	decOnce sync.Once
	decoder *zstd.Decoder
)

func zstdEncoder() *zstd.Encoder {
	encOnce.Do(func() {
		encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	return encoder
}

func zstdDecoder() *zstd.Decoder {
	decOnce.Do(func() {
		decoder, _ = zstd.NewReader(nil)
	})
	return decoder
}

type Codec struct {
	compress bool
}

func New(compress bool) *Codec {
	return &Codec{compress: compress}
}

func (c *Codec) Encode(s *entity.PersistSnapshot) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, errs.Wrap(OpEncode, errs.KindCodec, err, map[string]any{"save": s.Name})
	}
	if !c.compress {
		return raw, nil
	}
	return zstdEncoder().EncodeAll(raw, make([]byte, 0, len(raw)/3)), nil
}

func (c *Codec) Decode(data []byte) (*entity.PersistSnapshot, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		raw, err := zstdDecoder().DecodeAll(data, nil)
		if err != nil {
			return nil, errs.Wrap(OpDecode, errs.KindCodec, fmt.Errorf("zstd: %w", err), nil)
		}
		data = raw
	}
	var s entity.PersistSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errs.Wrap(OpDecode, errs.KindCodec, err, nil)
	}
	return &s, nil
}

// DecodeSettlement 解码并恢复成聚合。
func (c *Codec) DecodeSettlement(data []byte) (*entity.Settlement, error) {
	s, err := c.Decode(data)
	if err != nil {
		return nil, err
	}
	return entity.Hydrate(s), nil
}
