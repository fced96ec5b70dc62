package apiserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/simc/internal/simcfe"
	"github.com/dekarrin/simc/internal/simcfe/ast"
	"github.com/dekarrin/simc/internal/simcfe/grammar"
	"github.com/dekarrin/simc/internal/simcfe/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exprGrammar() grammar.Grammar {
	g := grammar.New()
	g.AddTerm("plus", token.MakeClass("plus"))
	g.AddTerm("id", token.MakeClass("id"))
	g.AddTerm("$", token.End)

	g.AddRule("E", []string{"E", "plus", "T"})
	g.AddRule("E", []string{"T"})
	g.AddRule("T", []string{"id"})

	g.SetStart("E")
	return *g
}

func exprMapping() ast.Mapping {
	m := ast.Mapping{}
	m.Set("E", []string{"E", "plus", "T"}, ast.KindArithExpr)
	m.Set("E", []string{"T"}, ast.KindParenExpr)
	m.Set("T", []string{"id"}, ast.KindVarExpr)
	return m
}

func testServer(t *testing.T) *Server {
	t.Helper()
	fe, err := simcfe.NewFrontend(exprGrammar(), exprMapping(), simcfe.Options{Algorithm: simcfe.SLR1})
	require.NoError(t, err)
	return &Server{Frontend: fe, Secret: []byte("test-secret")}
}

func Test_handleCompile_requires_auth(t *testing.T) {
	s := testServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+PathPrefix+"/compile", "application/json", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Test_handleIssueToken_then_handleCompile exercises the full auth + compile
// round trip. The toy expression grammar used by testServer has no notion
// of variable declarations, so compiling a bare "a" (a KindVarExpr once
// parsed) is expected to fail semantic analysis with an undeclared-variable
// error -- this is still a meaningful end-to-end check: it proves a minted
// token authorizes the request and that a pipeline error is surfaced as a
// 422 with the sema error message, not a 401 or a 500.
func Test_handleIssueToken_then_handleCompile(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s := testServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	tokResp, err := http.Post(srv.URL+PathPrefix+"/tokens", "application/json", bytes.NewReader([]byte(`{"subject":"ci"}`)))
	require.NoError(err)
	defer tokResp.Body.Close()
	require.Equal(http.StatusOK, tokResp.StatusCode)

	var issued tokenIssueResponse
	require.NoError(json.NewDecoder(tokResp.Body).Decode(&issued))
	require.NotEmpty(issued.Token)

	body := compileRequest{Tokens: []tokenDTO{
		{Class: "id", Lexeme: "a", Line: 1, LinePos: 1},
	}}
	raw, err := json.Marshal(body)
	require.NoError(err)

	req, err := http.NewRequest(http.MethodPost, srv.URL+PathPrefix+"/compile", bytes.NewReader(raw))
	require.NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+issued.Token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(err)
	defer resp.Body.Close()
	require.Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	var out apiError
	require.NoError(json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(out.Message)
}
