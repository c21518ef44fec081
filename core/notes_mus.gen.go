// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	sliceBRcBkj3rJJNiSYΔInjIMmwΞΞ = ord.NewSliceSer[float32](varint.Float32)
	slicewG3NmkKNS2EqTkeR1L1tnwΞΞ = ord.NewSliceSer[string](ord.String)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return ord.String.Marshal(string(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return ord.String.Size(string(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return ord.String.Skip(bs)
}

var NoteMUS = noteMUS{}

type noteMUS struct{}

func (s noteMUS) Marshal(v Note, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += slicewG3NmkKNS2EqTkeR1L1tnwΞΞ.Marshal(v.Tags, bs[n:])
	n += sliceBRcBkj3rJJNiSYΔInjIMmwΞΞ.Marshal(v.Vector, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s noteMUS) Unmarshal(bs []byte) (v Note, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Tags, n1, err = slicewG3NmkKNS2EqTkeR1L1tnwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = sliceBRcBkj3rJJNiSYΔInjIMmwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s noteMUS) Size(v Note) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Content)
	size += slicewG3NmkKNS2EqTkeR1L1tnwΞΞ.Size(v.Tags)
	size += sliceBRcBkj3rJJNiSYΔInjIMmwΞΞ.Size(v.Vector)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s noteMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicewG3NmkKNS2EqTkeR1L1tnwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceBRcBkj3rJJNiSYΔInjIMmwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var NoteChunkMUS = noteChunkMUS{}

type noteChunkMUS struct{}

func (s noteChunkMUS) Marshal(v NoteChunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.NoteId, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += sliceBRcBkj3rJJNiSYΔInjIMmwΞΞ.Marshal(v.Vector, bs[n:])
	n += varint.Int.Marshal(v.Index, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
}

func (s noteChunkMUS) Unmarshal(bs []byte) (v NoteChunk, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.NoteId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = sliceBRcBkj3rJJNiSYΔInjIMmwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Index, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s noteChunkMUS) Size(v NoteChunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.NoteId)
	size += ord.String.Size(v.Content)
	size += sliceBRcBkj3rJJNiSYΔInjIMmwΞΞ.Size(v.Vector)
	size += varint.Int.Size(v.Index)
	return size + raw.TimeUnixMicro.Size(v.CreatedAt)
}

func (s noteChunkMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceBRcBkj3rJJNiSYΔInjIMmwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
