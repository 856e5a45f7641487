package iosamples

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/seafront/seafront/pkg/artifact"
)

// ReadMEX reads a 10x Genomics filtered feature-barcode matrix
// directory: barcodes.tsv, features.tsv (or genes.tsv from older
// pipelines) and matrix.mtx, each optionally gzip-compressed. The
// Matrix Market file is genes by cells and is transposed to cells by
// genes.
func ReadMEX(dir string) (*Sample, error) {
	barcodes, err := readLines(filepath.Join(dir, "barcodes.tsv"))
	if err != nil {
		return nil, err
	}

	featPath := filepath.Join(dir, "features.tsv")
	if !exists(featPath) && !exists(featPath+".gz") {
		featPath = filepath.Join(dir, "genes.tsv")
	}
	features, err := readLines(featPath)
	if err != nil {
		return nil, err
	}

	res := &Sample{
		Barcodes: barcodes,
		Genes:    make([]string, len(features)),
		GeneIDs:  make([]string, len(features)),
	}
	for i, l := range features {
		fields := strings.Split(l, "\t")
		res.GeneIDs[i] = fields[0]
		res.Genes[i] = fields[0]
		if len(fields) > 1 && fields[1] != "" {
			res.Genes[i] = fields[1]
		}
	}

	res.X, err = readMatrixMarket(filepath.Join(dir, "matrix.mtx"), len(features), len(barcodes))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readLines(path string) ([]string, error) {
	r, err := openPlainOrGz(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var res []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		l := strings.TrimRight(sc.Text(), "\r")
		if l == "" {
			continue
		}
		res = append(res, l)
	}
	return res, sc.Err()
}

// readMatrixMarket reads a coordinate Matrix Market file of nGenes rows
// and nCells columns and returns its transpose.
func readMatrixMarket(path string, nGenes, nCells int) (*artifact.Matrix, error) {
	r, err := openPlainOrGz(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if !strings.HasPrefix(header, "%%MatrixMarket matrix coordinate") {
		return nil, fmt.Errorf("%s is not a coordinate Matrix Market file", path)
	}

	cols := make([][]int, nCells)
	vals := make([][]float64, nCells)
	sized := false
	sc := bufio.NewScanner(br)
	for line := 2; sc.Scan(); line++ {
		l := strings.TrimSpace(sc.Text())
		if l == "" || strings.HasPrefix(l, "%") {
			continue
		}
		f := strings.Fields(l)
		if !sized {
			if len(f) != 3 {
				return nil, fmt.Errorf("line %d: bad size line", line)
			}
			rows, err1 := strconv.Atoi(f[0])
			cells, err2 := strconv.Atoi(f[1])
			if err := errors.Join(err1, err2); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if rows != nGenes || cells != nCells {
				return nil, fmt.Errorf(
					"matrix is %dx%d, expected %d genes and %d barcodes",
					rows, cells, nGenes, nCells)
			}
			sized = true
			continue
		}
		if len(f) < 2 {
			return nil, fmt.Errorf("line %d: bad entry", line)
		}
		g, err1 := strconv.Atoi(f[0])
		c, err2 := strconv.Atoi(f[1])
		v := 1.0
		var err3 error
		if len(f) > 2 {
			v, err3 = strconv.ParseFloat(f[2], 64)
		}
		if err := errors.Join(err1, err2, err3); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if g < 1 || g > nGenes || c < 1 || c > nCells {
			return nil, fmt.Errorf("line %d: entry (%d, %d) out of range", line, g, c)
		}
		cols[c-1] = append(cols[c-1], g-1)
		vals[c-1] = append(vals[c-1], v)
	}
	if err = sc.Err(); err != nil {
		return nil, err
	}
	if !sized {
		return nil, fmt.Errorf("%s has no size line", path)
	}

	res := artifact.NewMatrix(nGenes)
	for i := range nCells {
		if err = res.AppendRow(cols[i], vals[i]); err != nil {
			return nil, fmt.Errorf("cell %d: %w", i+1, err)
		}
	}
	return res, nil
}
