package client

import (
	"context"
	"strings"

	apperrors "github.com/moleculab/chemalyzer/pkg/errors"
	types "github.com/moleculab/chemalyzer/pkg/types/analysis"
)

// invalidArg rejects a call before it reaches the wire.
func invalidArg(msg string) error {
	return apperrors.InvalidParam(msg)
}

// Analyze runs the full analysis pipeline for a query: a compound name, a
// SMILES string, or a sentence containing either.
// POST /api/analyze
func (c *Client) Analyze(ctx context.Context, query string) (*types.CompoundAnalysis, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidArg("query is required")
	}

	var resp types.AnalyzeResponse
	if err := c.post(ctx, "/api/analyze", types.AnalyzeRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Data == nil {
		return nil, &APIError{Message: resp.Error, Suggestions: resp.Suggestions}
	}
	return resp.Data, nil
}

// ValidateSMILES checks a SMILES string for structural defects without
// running the analysis pipeline. The returned report is non-nil whenever the
// call itself succeeded, whether or not the SMILES is valid.
// POST /api/validate-smiles
func (c *Client) ValidateSMILES(ctx context.Context, smiles string) (*types.ValidateSMILESResponse, error) {
	smiles = strings.TrimSpace(smiles)
	if smiles == "" {
		return nil, invalidArg("smiles is required")
	}

	var resp types.ValidateSMILESResponse
	if err := c.post(ctx, "/api/validate-smiles", types.ValidateSMILESRequest{SMILES: smiles}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Compounds lists the names the server can resolve without a SMILES string.
// GET /api/compounds
func (c *Client) Compounds(ctx context.Context) ([]string, error) {
	var resp types.CompoundsResponse
	if err := c.get(ctx, "/api/compounds", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Message: resp.Error}
	}
	return resp.Compounds, nil
}

// Compare scores the structural similarity of two compounds, each given as
// an Analyze-style query.
// POST /api/compare
func (c *Client) Compare(ctx context.Context, query1, query2 string) (*types.SimilarityReport, error) {
	query1 = strings.TrimSpace(query1)
	query2 = strings.TrimSpace(query2)
	if query1 == "" || query2 == "" {
		return nil, invalidArg("query1 and query2 are required")
	}

	var resp types.CompareResponse
	if err := c.post(ctx, "/api/compare", types.CompareRequest{Query1: query1, Query2: query2}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Data == nil {
		return nil, &APIError{Message: resp.Error, Suggestions: resp.Suggestions}
	}
	return resp.Data, nil
}

// Health reports server liveness and engine readiness.
// GET /api/health
func (c *Client) Health(ctx context.Context) (*types.HealthResponse, error) {
	var resp types.HealthResponse
	if err := c.get(ctx, "/api/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
