package service

import (
	"fmt"
	"reflect"

	"github.com/ugorji/go/codec"
)

// maxMsgpackDepth bounds nesting of peer-supplied metadata.
const maxMsgpackDepth = 32

var msgpackHandle = newMsgpackHandle()

func newMsgpackHandle() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	h.RawToString = true
	h.MaxDepth = maxMsgpackDepth
	h.MapType = reflect.TypeOf(map[any]any(nil))
	return h
}

// MarshalMsgpack encodes v as msgpack.
func MarshalMsgpack(v any) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, msgpackHandle).Encode(v); err != nil {
		return nil, err
	}
	return out, nil
}

// UnmarshalMsgpack decodes exactly one msgpack value from data into v.
// Maps nested in interface values decode as map[any]any, so keys of any hashable type are kept.
// Trailing bytes and unhashable map keys are an error.
func UnmarshalMsgpack(data []byte, v any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("msgpack decode panic: %v", r)
		}
	}()

	dec := codec.NewDecoderBytes(data, msgpackHandle)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if n := dec.NumBytesRead(); n != len(data) {
		return fmt.Errorf("%d trailing bytes after msgpack value", len(data)-n)
	}
	return nil
}
