// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	mapcHpkq6q50WvdbIM17yxjzgΞΞ   = ord.NewMapSer[string, string](ord.String, ord.String)
	sliceeC1VBfn3MXΔOBWGrikHd5QΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var VectorRecordMUS = vectorRecordMUS{}

type vectorRecordMUS struct{}

func (s vectorRecordMUS) Marshal(v VectorRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += sliceeC1VBfn3MXΔOBWGrikHd5QΞΞ.Marshal(v.Vector, bs[n:])
	n += mapcHpkq6q50WvdbIM17yxjzgΞΞ.Marshal(v.Metadata, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s vectorRecordMUS) Unmarshal(bs []byte) (v VectorRecord, n int, err error) {
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Vector, n1, err = sliceeC1VBfn3MXΔOBWGrikHd5QΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = mapcHpkq6q50WvdbIM17yxjzgΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s vectorRecordMUS) Size(v VectorRecord) (size int) {
	size = ord.String.Size(v.Id)
	size += sliceeC1VBfn3MXΔOBWGrikHd5QΞΞ.Size(v.Vector)
	size += mapcHpkq6q50WvdbIM17yxjzgΞΞ.Size(v.Metadata)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s vectorRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = sliceeC1VBfn3MXΔOBWGrikHd5QΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapcHpkq6q50WvdbIM17yxjzgΞΞ.Skip(bs[n:])
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

var CollectionInfoMUS = collectionInfoMUS{}

type collectionInfoMUS struct{}

func (s collectionInfoMUS) Marshal(v CollectionInfo, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += varint.Int.Marshal(v.Dimensions, bs[n:])
	n += mapcHpkq6q50WvdbIM17yxjzgΞΞ.Marshal(v.Metadata, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
}

func (s collectionInfoMUS) Unmarshal(bs []byte) (v CollectionInfo, n int, err error) {
	v.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Dimensions, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = mapcHpkq6q50WvdbIM17yxjzgΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s collectionInfoMUS) Size(v CollectionInfo) (size int) {
	size = ord.String.Size(v.Name)
	size += varint.Int.Size(v.Dimensions)
	size += mapcHpkq6q50WvdbIM17yxjzgΞΞ.Size(v.Metadata)
	return size + raw.TimeUnixMicro.Size(v.CreatedAt)
}

func (s collectionInfoMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapcHpkq6q50WvdbIM17yxjzgΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
