package appdata

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the snapshot layout. Changing them changes the format.
const (
	fieldInstalledMod protowire.Number = 1
	fieldModioToken   protowire.Number = 2
	fieldPlatform     protowire.Number = 3

	fieldEntryID  protowire.Number = 1
	fieldEntryMod protowire.Number = 2

	fieldModDateUpdated protowire.Number = 1
	fieldModFolder      protowire.Number = 2
)

// Encode serializes state into the snapshot format. Mods are written in
// ascending id order so equal states encode to equal bytes.
func Encode(state *AppState) []byte {
	var b []byte
	for _, id := range state.ModIDs() {
		entry := encodeEntry(id, state.InstalledMods[id])
		b = protowire.AppendTag(b, fieldInstalledMod, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	if state.ModioToken != nil {
		b = protowire.AppendTag(b, fieldModioToken, protowire.BytesType)
		b = protowire.AppendString(b, *state.ModioToken)
	}
	if state.Platform != nil {
		b = protowire.AppendTag(b, fieldPlatform, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*state.Platform))
	}
	return b
}

func encodeEntry(id uint64, mod InstalledMod) []byte {
	var m []byte
	m = protowire.AppendTag(m, fieldModDateUpdated, protowire.VarintType)
	m = protowire.AppendVarint(m, mod.DateUpdated)
	m = protowire.AppendTag(m, fieldModFolder, protowire.BytesType)
	m = protowire.AppendString(m, mod.Folder)

	var e []byte
	e = protowire.AppendTag(e, fieldEntryID, protowire.VarintType)
	e = protowire.AppendVarint(e, id)
	e = protowire.AppendTag(e, fieldEntryMod, protowire.BytesType)
	e = protowire.AppendBytes(e, m)
	return e
}

// Decode parses a snapshot. Failures are always *DecodeError; see
// IsCorruption for which kinds Store.Read heals.
func Decode(b []byte) (*AppState, error) {
	state := NewAppState()
	err := walkFields(b, 0, func(num protowire.Number, typ protowire.Type, v []byte, off int) error {
		switch num {
		case fieldInstalledMod:
			if typ != protowire.BytesType {
				return mismatch(off, "installed mod", typ)
			}
			id, mod, err := decodeEntry(v, off)
			if err != nil {
				return err
			}
			state.InstalledMods[id] = mod
		case fieldModioToken:
			if typ != protowire.BytesType {
				return mismatch(off, "modio token", typ)
			}
			if !utf8.Valid(v) {
				return &DecodeError{Kind: ErrInvalidEncoding, Offset: off, Msg: "modio token is not valid UTF-8"}
			}
			state.SetModioToken(string(v))
		case fieldPlatform:
			if typ != protowire.VarintType {
				return mismatch(off, "platform", typ)
			}
			p, _ := protowire.ConsumeVarint(v)
			if p > uint64(PlatformQuest) {
				return &DecodeError{Kind: ErrMalformed, Offset: off, Msg: fmt.Sprintf("platform only accepts values equal to 0 or 1, got %d", p)}
			}
			state.SetPlatform(Platform(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func decodeEntry(b []byte, base int) (uint64, InstalledMod, error) {
	var (
		id  uint64
		mod InstalledMod
	)
	err := walkFields(b, base, func(num protowire.Number, typ protowire.Type, v []byte, off int) error {
		switch num {
		case fieldEntryID:
			if typ != protowire.VarintType {
				return mismatch(off, "mod id", typ)
			}
			id, _ = protowire.ConsumeVarint(v)
		case fieldEntryMod:
			if typ != protowire.BytesType {
				return mismatch(off, "installed mod record", typ)
			}
			m, err := decodeMod(v, off)
			if err != nil {
				return err
			}
			mod = m
		}
		return nil
	})
	return id, mod, err
}

func decodeMod(b []byte, base int) (InstalledMod, error) {
	var mod InstalledMod
	err := walkFields(b, base, func(num protowire.Number, typ protowire.Type, v []byte, off int) error {
		switch num {
		case fieldModDateUpdated:
			if typ != protowire.VarintType {
				return mismatch(off, "date updated", typ)
			}
			mod.DateUpdated, _ = protowire.ConsumeVarint(v)
		case fieldModFolder:
			if typ != protowire.BytesType {
				return mismatch(off, "folder", typ)
			}
			mod.Folder = string(v)
		}
		return nil
	})
	return mod, err
}

// walkFields visits each field of a message. For varint fields v holds the
// raw varint bytes; for length-delimited fields it holds the payload.
// Fields the visitor ignores are skipped, which covers unknown numbers.
func walkFields(b []byte, base int, visit func(num protowire.Number, typ protowire.Type, v []byte, off int) error) error {
	for off := 0; off < len(b); {
		num, typ, n := protowire.ConsumeTag(b[off:])
		if n < 0 {
			return wireError(n, base+off)
		}
		tagOff := base + off
		off += n

		var v []byte
		switch typ {
		case protowire.BytesType:
			payload, m := protowire.ConsumeBytes(b[off:])
			if m < 0 {
				return wireError(m, base+off)
			}
			v = payload
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, b[off:])
			if n < 0 {
				return wireError(n, base+off)
			}
			v = b[off : off+n]
		}

		payloadOff := base + off + n - len(v)
		off += n
		if err := visit(num, typ, v, payloadOff); err != nil {
			if _, ok := err.(*DecodeError); ok {
				return err
			}
			return &DecodeError{Kind: ErrMalformed, Offset: tagOff, Msg: err.Error()}
		}
	}
	return nil
}

func wireError(n int, off int) *DecodeError {
	err := protowire.ParseError(n)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return &DecodeError{Kind: ErrUnexpectedEnd, Offset: off}
	}
	return &DecodeError{Kind: ErrInvalidEncoding, Offset: off, Msg: err.Error()}
}

func mismatch(off int, field string, typ protowire.Type) *DecodeError {
	return &DecodeError{Kind: ErrTypeMismatch, Offset: off, Msg: fmt.Sprintf("%s has wire type %d", field, typ)}
}
