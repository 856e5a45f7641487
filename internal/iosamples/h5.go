package iosamples

import (
	"bytes"
	"fmt"

	"github.com/seafront/seafront/pkg/artifact"
	"gonum.org/v1/hdf5"
)

// Dataset paths of a 10x Genomics feature-barcode matrix (Cell Ranger 3
// and later).
const (
	h5Barcodes = "matrix/barcodes"
	h5Names    = "matrix/features/name"
	h5IDs      = "matrix/features/id"
	h5Shape    = "matrix/shape"
	h5Indptr   = "matrix/indptr"
	h5Indices  = "matrix/indices"
	h5Data     = "matrix/data"
)

// ReadH5 reads a 10x Genomics filtered feature-barcode matrix in HDF5
// format. The file holds a genes by cells matrix compressed by column,
// so each of its columns is one cell row of the result.
func ReadH5(path string) (*Sample, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	barcodes, err := h5Strings(f, h5Barcodes)
	if err != nil {
		return nil, err
	}
	genes, err := h5Strings(f, h5Names)
	if err != nil {
		return nil, err
	}
	ids, err := h5Strings(f, h5IDs)
	if err != nil {
		return nil, err
	}
	shape, err := h5Ints(f, h5Shape)
	if err != nil {
		return nil, err
	}
	if len(shape) != 2 || shape[0] != len(genes) || shape[1] != len(barcodes) {
		return nil, fmt.Errorf("shape %v does not match %d genes and %d barcodes",
			shape, len(genes), len(barcodes))
	}
	if len(ids) != len(genes) {
		return nil, fmt.Errorf("%d feature ids for %d feature names", len(ids), len(genes))
	}

	indptr, err := h5Ints(f, h5Indptr)
	if err != nil {
		return nil, err
	}
	indices, err := h5Ints(f, h5Indices)
	if err != nil {
		return nil, err
	}
	data, err := h5Floats(f, h5Data)
	if err != nil {
		return nil, err
	}
	if len(indptr) != len(barcodes)+1 || len(indices) != len(data) ||
		indptr[0] != 0 || indptr[len(barcodes)] != len(data) {
		return nil, fmt.Errorf("%s does not index %d values of %d cells",
			h5Indptr, len(data), len(barcodes))
	}

	x := artifact.NewMatrix(len(genes))
	for i := range barcodes {
		lo, hi := indptr[i], indptr[i+1]
		if lo > hi || hi > len(data) {
			return nil, fmt.Errorf("%s decreases at cell %d", h5Indptr, i)
		}
		if err = x.AppendRow(indices[lo:hi], data[lo:hi]); err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
	}

	return &Sample{
		Barcodes: barcodes,
		Genes:    genes,
		GeneIDs:  ids,
		X:        x,
	}, nil
}

// h5Open opens a dataset with its stored type and number of elements.
// Reads use the stored type, so buffers must match its layout.
func h5Open(f *hdf5.File, name string) (*hdf5.Dataset, *hdf5.Datatype, int, error) {
	ds, err := f.OpenDataset(name)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%s: %w", name, err)
	}
	dt, err := ds.Datatype()
	if err != nil {
		ds.Close()
		return nil, nil, 0, fmt.Errorf("%s: %w", name, err)
	}
	space := ds.Space()
	n := space.SimpleExtentNPoints()
	space.Close()
	return ds, dt, n, nil
}

// h5Strings reads a dataset of fixed-length strings, trimming the
// padding.
func h5Strings(f *hdf5.File, name string) ([]string, error) {
	ds, dt, n, err := h5Open(f, name)
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	defer dt.Close()

	if dt.Class() != hdf5.T_STRING || dt.IsVariableStr() {
		return nil, fmt.Errorf("%s is not a fixed-length string dataset", name)
	}
	width := int(dt.Size())
	buf := make([]byte, n*width)
	if n > 0 {
		if err = ds.Read(&buf); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	res := make([]string, n)
	for i := range res {
		s := buf[i*width : (i+1)*width]
		res[i] = string(bytes.TrimRight(s, "\x00"))
	}
	return res, nil
}

// h5Ints reads a dataset of 32 or 64 bit integers.
func h5Ints(f *hdf5.File, name string) ([]int, error) {
	ds, dt, n, err := h5Open(f, name)
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	defer dt.Close()

	if dt.Class() != hdf5.T_INTEGER {
		return nil, fmt.Errorf("%s is not an integer dataset", name)
	}
	res := make([]int, n)
	if n == 0 {
		return res, nil
	}
	switch dt.Size() {
	case 4:
		buf := make([]int32, n)
		if err = ds.Read(&buf); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for i, v := range buf {
			res[i] = int(v)
		}
	case 8:
		buf := make([]int64, n)
		if err = ds.Read(&buf); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for i, v := range buf {
			res[i] = int(v)
		}
	default:
		return nil, fmt.Errorf("%s has %d byte integers", name, dt.Size())
	}
	return res, nil
}

// h5Floats reads counts stored as integers or floats.
func h5Floats(f *hdf5.File, name string) ([]float64, error) {
	ds, dt, n, err := h5Open(f, name)
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	defer dt.Close()

	res := make([]float64, n)
	if n == 0 {
		return res, nil
	}
	class, size := dt.Class(), dt.Size()
	switch {
	case class == hdf5.T_INTEGER && size == 4:
		buf := make([]int32, n)
		err = ds.Read(&buf)
		for i, v := range buf {
			res[i] = float64(v)
		}
	case class == hdf5.T_INTEGER && size == 8:
		buf := make([]int64, n)
		err = ds.Read(&buf)
		for i, v := range buf {
			res[i] = float64(v)
		}
	case class == hdf5.T_FLOAT && size == 4:
		buf := make([]float32, n)
		err = ds.Read(&buf)
		for i, v := range buf {
			res[i] = float64(v)
		}
	case class == hdf5.T_FLOAT && size == 8:
		err = ds.Read(&res)
	default:
		return nil, fmt.Errorf("%s is not a numeric dataset", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return res, nil
}
