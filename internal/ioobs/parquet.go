package ioobs

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/google/renameio"
	"github.com/parquet-go/parquet-go"
	"github.com/seafront/seafront/pkg/census"
	"github.com/seafront/seafront/pkg/obs"
)

// CensusObsRow is one cell of the census observation table as stored
// in parquet. Nullable columns are pointers.
type CensusObsRow struct {
	SomaJoinID                      int64    `parquet:"soma_joinid"`
	DatasetID                       *string  `parquet:"dataset_id,optional"`
	Assay                           *string  `parquet:"assay,optional"`
	AssayOntologyTermID             *string  `parquet:"assay_ontology_term_id,optional"`
	CellType                        *string  `parquet:"cell_type,optional"`
	CellTypeOntologyTermID          *string  `parquet:"cell_type_ontology_term_id,optional"`
	DevelopmentStage                *string  `parquet:"development_stage,optional"`
	DevelopmentStageOntologyTermID  *string  `parquet:"development_stage_ontology_term_id,optional"`
	Disease                         *string  `parquet:"disease,optional"`
	DiseaseOntologyTermID           *string  `parquet:"disease_ontology_term_id,optional"`
	DonorID                         *string  `parquet:"donor_id,optional"`
	IsPrimaryData                   *bool    `parquet:"is_primary_data,optional"`
	ObservationJoinID               *string  `parquet:"observation_joinid,optional"`
	SelfReportedEthnicity           *string  `parquet:"self_reported_ethnicity,optional"`
	SelfReportedEthnicityOntologyID *string  `parquet:"self_reported_ethnicity_ontology_term_id,optional"`
	Sex                             *string  `parquet:"sex,optional"`
	SexOntologyTermID               *string  `parquet:"sex_ontology_term_id,optional"`
	SuspensionType                  *string  `parquet:"suspension_type,optional"`
	Tissue                          *string  `parquet:"tissue,optional"`
	TissueOntologyTermID            *string  `parquet:"tissue_ontology_term_id,optional"`
	TissueType                      *string  `parquet:"tissue_type,optional"`
	TissueGeneral                   *string  `parquet:"tissue_general,optional"`
	TissueGeneralOntologyTermID     *string  `parquet:"tissue_general_ontology_term_id,optional"`
	RawSum                          *float64 `parquet:"raw_sum,optional"`
	NNZ                             *int64   `parquet:"nnz,optional"`
	RawMeanNNZ                      *float64 `parquet:"raw_mean_nnz,optional"`
	RawVarianceNNZ                  *float64 `parquet:"raw_variance_nnz,optional"`
	NMeasuredVars                   *int64   `parquet:"n_measured_vars,optional"`
}

type obsField struct {
	name string
	get  func(r *CensusObsRow) obs.Value
}

func str(p *string) obs.Value {
	if p == nil {
		return obs.Missing
	}
	return obs.String(*p)
}

func num(p *float64) obs.Value {
	if p == nil {
		return obs.Missing
	}
	return obs.Number(*p)
}

func count(p *int64) obs.Value {
	if p == nil {
		return obs.Missing
	}
	return obs.Number(float64(*p))
}

func flag(p *bool) obs.Value {
	if p == nil {
		return obs.Missing
	}
	if *p {
		return obs.String("True")
	}
	return obs.String("False")
}

var censusFields = []obsField{
	{"soma_joinid", func(r *CensusObsRow) obs.Value { return obs.Number(float64(r.SomaJoinID)) }},
	{"dataset_id", func(r *CensusObsRow) obs.Value { return str(r.DatasetID) }},
	{"assay", func(r *CensusObsRow) obs.Value { return str(r.Assay) }},
	{"assay_ontology_term_id", func(r *CensusObsRow) obs.Value { return str(r.AssayOntologyTermID) }},
	{"cell_type", func(r *CensusObsRow) obs.Value { return str(r.CellType) }},
	{"cell_type_ontology_term_id", func(r *CensusObsRow) obs.Value { return str(r.CellTypeOntologyTermID) }},
	{"development_stage", func(r *CensusObsRow) obs.Value { return str(r.DevelopmentStage) }},
	{"development_stage_ontology_term_id", func(r *CensusObsRow) obs.Value { return str(r.DevelopmentStageOntologyTermID) }},
	{"disease", func(r *CensusObsRow) obs.Value { return str(r.Disease) }},
	{"disease_ontology_term_id", func(r *CensusObsRow) obs.Value { return str(r.DiseaseOntologyTermID) }},
	{"donor_id", func(r *CensusObsRow) obs.Value { return str(r.DonorID) }},
	{"is_primary_data", func(r *CensusObsRow) obs.Value { return flag(r.IsPrimaryData) }},
	{"observation_joinid", func(r *CensusObsRow) obs.Value { return str(r.ObservationJoinID) }},
	{"self_reported_ethnicity", func(r *CensusObsRow) obs.Value { return str(r.SelfReportedEthnicity) }},
	{"self_reported_ethnicity_ontology_term_id", func(r *CensusObsRow) obs.Value { return str(r.SelfReportedEthnicityOntologyID) }},
	{"sex", func(r *CensusObsRow) obs.Value { return str(r.Sex) }},
	{"sex_ontology_term_id", func(r *CensusObsRow) obs.Value { return str(r.SexOntologyTermID) }},
	{"suspension_type", func(r *CensusObsRow) obs.Value { return str(r.SuspensionType) }},
	{"tissue", func(r *CensusObsRow) obs.Value { return str(r.Tissue) }},
	{"tissue_ontology_term_id", func(r *CensusObsRow) obs.Value { return str(r.TissueOntologyTermID) }},
	{"tissue_type", func(r *CensusObsRow) obs.Value { return str(r.TissueType) }},
	{"tissue_general", func(r *CensusObsRow) obs.Value { return str(r.TissueGeneral) }},
	{"tissue_general_ontology_term_id", func(r *CensusObsRow) obs.Value { return str(r.TissueGeneralOntologyTermID) }},
	{"raw_sum", func(r *CensusObsRow) obs.Value { return num(r.RawSum) }},
	{"nnz", func(r *CensusObsRow) obs.Value { return count(r.NNZ) }},
	{"raw_mean_nnz", func(r *CensusObsRow) obs.Value { return num(r.RawMeanNNZ) }},
	{"raw_variance_nnz", func(r *CensusObsRow) obs.Value { return num(r.RawVarianceNNZ) }},
	{"n_measured_vars", func(r *CensusObsRow) obs.Value { return count(r.NMeasuredVars) }},
}

// CensusTable converts parquet rows into an observation table indexed
// by soma_joinid.
func CensusTable(rows []CensusObsRow) (*obs.Table, error) {
	names := make([]string, len(censusFields))
	for i, f := range censusFields {
		names[i] = f.name
	}
	res := obs.New(names...)
	vals := make([]obs.Value, len(censusFields))
	for i := range rows {
		r := &rows[i]
		for j, f := range censusFields {
			vals[j] = f.get(r)
		}
		if err := res.AppendRow(strconv.FormatInt(r.SomaJoinID, 10), vals...); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ReadCensusObs reads a census observation parquet file.
func ReadCensusObs(path string) (*obs.Table, error) {
	rows, err := parquet.ReadFile[CensusObsRow](path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	return CensusTable(rows)
}

// WriteCensusObs stores rows as a parquet file.
func WriteCensusObs(path string, rows []CensusObsRow) error {
	if err := parquet.WriteFile(path, rows); err != nil {
		return WriteFileError(path, err)
	}
	return nil
}

// LoadCensusObs returns the census observation table of an organism.
// The table is read from path, when the file does not exist it is
// downloaded there first.
func LoadCensusObs(
	ctx context.Context,
	client census.Client,
	organism, path string,
) (*obs.Table, error) {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		if err = downloadObs(ctx, client, organism, path); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, ReadFileError(path, err)
	}
	return ReadCensusObs(path)
}

func downloadObs(
	ctx context.Context,
	client census.Client,
	organism, path string,
) error {
	start := time.Now()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return WriteFileError(dir, err)
	}
	pf, err := renameio.TempFile(dir, path)
	if err != nil {
		return WriteFileError(path, err)
	}
	defer pf.Cleanup()

	n, err := client.DownloadObs(ctx, organism, pf)
	if err != nil {
		return err
	}
	if err = pf.Chmod(0644); err != nil {
		return WriteFileError(path, err)
	}
	if err = pf.CloseAtomicallyReplace(); err != nil {
		return WriteFileError(path, err)
	}
	slog.Info("Census observations downloaded",
		"organism", organism,
		"size", humanize.Bytes(uint64(n)),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return nil
}
