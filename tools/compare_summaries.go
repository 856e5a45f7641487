// compare_summaries compares a summary TSV written by
// `seafront summarize` with the rows exported to PostgreSQL.
//
// Usage:
//
//	go run tools/compare_summaries.go --summary meta/census_summary.tsv --host localhost --password secret
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seafront/seafront/internal/ioobs"
	"github.com/seafront/seafront/pkg/obs"
	"github.com/seafront/seafront/pkg/schema"
	"github.com/seafront/seafront/pkg/standardize"
)

type key struct {
	dataset, field string
}

func main() {
	summary := flag.String("summary", "meta/census_summary.tsv",
		"summary TSV file")
	host := flag.String("host", "localhost", "PostgreSQL host")
	port := flag.Int("port", 5432, "PostgreSQL port")
	user := flag.String("user", "postgres", "PostgreSQL user")
	password := flag.String("password", "", "PostgreSQL password")
	database := flag.String("database", "seafront", "PostgreSQL database")

	flag.Parse()

	ctx := context.Background()

	file, err := readSummary(*summary)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *summary, err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		*user, *password, *host, *port, *database)
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	ids := schema.DatasetIDs(file)
	stored, err := readStored(ctx, pool, ids)
	if err != nil {
		log.Fatalf("Failed to query summaries: %v", err)
	}

	fmt.Printf("Comparing %d datasets\n", len(ids))
	fmt.Println("====================")

	var diffs int
	seen := make(map[key]struct{}, len(file))
	for _, r := range file {
		k := key{r.DatasetID, r.Field}
		seen[k] = struct{}{}
		v, ok := stored[k]
		switch {
		case !ok:
			diffs++
			fmt.Printf("missing in database: %s %s\n", r.DatasetID, r.Field)
		case v != r.Value:
			diffs++
			fmt.Printf("differs: %s %s\n  file: %s\n  db:   %s\n",
				r.DatasetID, r.Field, r.Value, v)
		}
	}

	var extra []string
	for k := range stored {
		if _, ok := seen[k]; !ok {
			extra = append(extra, k.dataset+" "+k.field)
		}
	}
	slices.Sort(extra)
	for _, e := range extra {
		diffs++
		fmt.Printf("only in database: %s\n", e)
	}

	fmt.Printf("\n%d records compared, %d differences\n", len(file), diffs)
	if diffs > 0 {
		os.Exit(1)
	}
}

func readSummary(path string) ([]schema.DatasetSummary, error) {
	t, err := ioobs.ReadTSV(path)
	if err != nil {
		return nil, err
	}
	// the dataset id is written as the index
	ids := make([]obs.Value, t.Len())
	for i, id := range t.Index() {
		ids[i] = obs.String(id)
	}
	if t, err = t.WithColumn(standardize.DatasetIDColumn, ids); err != nil {
		return nil, err
	}
	return schema.Records(t)
}

func readStored(
	ctx context.Context,
	pool *pgxpool.Pool,
	ids []string,
) (map[key]string, error) {
	var s schema.DatasetSummary
	q := "SELECT dataset_id, field, value FROM " + s.TableName() +
		" WHERE dataset_id = ANY($1)"
	rows, err := pool.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[key]string)
	for rows.Next() {
		var k key
		var v string
		if err = rows.Scan(&k.dataset, &k.field, &v); err != nil {
			return nil, err
		}
		res[k] = v
	}
	return res, rows.Err()
}
