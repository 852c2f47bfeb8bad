package warehouse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rohankatakam/playlistlog/internal/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	bigquery "google.golang.org/api/bigquery/v2"
	"google.golang.org/api/option"
)

// Options configures a Sink
type Options struct {
	AccessToken string
	ProjectID   string
	DatasetID   string
	Endpoint    string // empty uses the public BigQuery v2 endpoint
	Logger      *logrus.Logger
}

// Sink streams rows into BigQuery tables of one dataset
type Sink struct {
	service   *bigquery.Service
	projectID string
	datasetID string
	logger    *logrus.Logger
}

// NewSink creates a sink authenticated with a pre-issued bearer token
func NewSink(ctx context.Context, opts Options) (*Sink, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.AccessToken, TokenType: "Bearer"})

	clientOpts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}
	if opts.Endpoint != "" {
		endpoint := opts.Endpoint
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		clientOpts = append(clientOpts, option.WithEndpoint(endpoint))
	}

	service, err := bigquery.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery service: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Sink{
		service:   service,
		projectID: opts.ProjectID,
		datasetID: opts.DatasetID,
		logger:    logger,
	}, nil
}

// InsertRows streams rows into tableID in a single insertAll request.
// Rows are not given insert ids, so re-running a load duplicates them.
func (s *Sink) InsertRows(ctx context.Context, tableID string, rows []any) error {
	if len(rows) == 0 {
		s.logger.WithField("table", tableID).Info("No rows to insert")
		return nil
	}

	req := &bigquery.TableDataInsertAllRequest{
		Rows: make([]*bigquery.TableDataInsertAllRequestRows, 0, len(rows)),
	}
	for i, row := range rows {
		values, err := toJSONObject(row)
		if err != nil {
			return errors.InternalErrorf("row %d of %s is not a JSON object: %v", i, tableID, err)
		}
		req.Rows = append(req.Rows, &bigquery.TableDataInsertAllRequestRows{Json: values})
	}

	resp, err := s.service.Tabledata.InsertAll(s.projectID, s.datasetID, tableID, req).Context(ctx).Do()
	if err != nil {
		return errors.ExternalErrorf(err, "insert %d rows into %s", len(rows), tableID).
			WithContext("table", tableID)
	}

	if len(resp.InsertErrors) > 0 {
		return errors.ExternalErrorf(rowErrors(resp.InsertErrors),
			"insert into %s rejected %d of %d rows", tableID, len(resp.InsertErrors), len(rows)).
			WithContext("table", tableID)
	}

	s.logger.WithFields(logrus.Fields{
		"table": tableID,
		"rows":  len(rows),
	}).Info("Inserted rows")
	return nil
}

func toJSONObject(row any) (map[string]bigquery.JsonValue, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	var values map[string]bigquery.JsonValue
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	if values == nil {
		return nil, fmt.Errorf("null row")
	}
	return values, nil
}

func rowErrors(insertErrors []*bigquery.TableDataInsertAllResponseInsertErrors) error {
	msgs := make([]string, 0, len(insertErrors))
	for _, ie := range insertErrors {
		for _, e := range ie.Errors {
			msgs = append(msgs, fmt.Sprintf("row %d: %s (%s)", ie.Index, e.Message, e.Reason))
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
