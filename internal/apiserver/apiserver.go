// Package apiserver exposes the compiler frontend as an HTTP service:
// submit a token stream, get back the AST, symbol/scope table dumps, and
// the intermediate-code listing as JSON (SPEC_FULL.md §1's "compile as a
// service" domain-stack component). Grounded on github.com/dekarrin/tunaq's
// server/api package for request/response shape and logging, and
// server/token.go for the bearer-JWT auth middleware -- simplified here to
// a single shared server secret rather than a per-user database, since this
// module has no user domain to look accounts up in.
package apiserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/simc/internal/diag"
	"github.com/dekarrin/simc/internal/simcfe"
	"github.com/dekarrin/simc/internal/simcfe/token"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PathPrefix is the prefix every route in this package is mounted under.
const PathPrefix = "/api/v1"

// Server holds the dependencies the HTTP handlers need: a ready-to-use
// compiler Frontend and the secret used to verify bearer tokens.
type Server struct {
	// Frontend is the pre-built compiler pipeline every /compile request is
	// run against. Build it once (directly, or via internal/tablecache) and
	// share it across requests -- it is read-only once constructed.
	Frontend *simcfe.Frontend

	// Secret signs and verifies the HS512 bearer tokens minted by
	// IssueToken and checked by the auth middleware.
	Secret []byte

	// UnauthDelay pauses a 401/403/500 response by this long before writing
	// it, the same deprioritization tactic server/api.API.UnauthDelay uses.
	UnauthDelay time.Duration
}

// Router builds the chi router serving this Server's endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Route(PathPrefix, func(r chi.Router) {
		r.Post("/tokens", s.handleIssueToken)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/compile", s.handleCompile)
		})
	})
	return r
}

type apiError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e apiError) Error() string { return e.Message }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, req *http.Request, status int, msg string) {
	log.Printf("ERROR %s %s: HTTP-%d %s", req.Method, req.URL.Path, status, msg)
	if status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusInternalServerError {
		time.Sleep(s.UnauthDelay)
	}
	writeJSON(w, status, apiError{Status: status, Message: msg})
}

func (s *Server) recoverPanic(w http.ResponseWriter, req *http.Request) {
	if p := recover(); p != nil {
		s.writeError(w, req, http.StatusInternalServerError,
			fmt.Sprintf("panic: %v\n%s", p, debug.Stack()))
	}
}

// tokenIssueRequest names the client a bearer token is minted for; there is
// no account system behind it, so any non-empty subject is accepted. This
// is intentionally the weakest possible auth story -- enough to demonstrate
// the JWT middleware pattern without fabricating a user database this
// module has no other use for.
type tokenIssueRequest struct {
	Subject string `json:"subject"`
}

type tokenIssueResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleIssueToken(w http.ResponseWriter, req *http.Request) {
	defer s.recoverPanic(w, req)

	var body tokenIssueRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || strings.TrimSpace(body.Subject) == "" {
		s.writeError(w, req, http.StatusBadRequest, "request body must be JSON with a non-empty \"subject\"")
		return
	}

	claims := &jwt.MapClaims{
		"iss": "simcc-api",
		"sub": body.Subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := tok.SignedString(s.Secret)
	if err != nil {
		s.writeError(w, req, http.StatusInternalServerError, "could not sign token: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tokenIssueResponse{Token: signed})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tok, err := getBearerToken(req)
		if err != nil {
			s.writeError(w, req, http.StatusUnauthorized, err.Error())
			return
		}

		_, err = jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
			return s.Secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("simcc-api"), jwt.WithLeeway(time.Minute))
		if err != nil {
			s.writeError(w, req, http.StatusUnauthorized, "invalid bearer token: "+err.Error())
			return
		}

		next.ServeHTTP(w, req)
	})
}

func getBearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// tokenDTO is the JSON shape of one lexed token in a /compile request body.
type tokenDTO struct {
	Class   string `json:"class"`
	Lexeme  string `json:"lexeme"`
	Line    int    `json:"line"`
	LinePos int    `json:"line_pos"`
}

type compileRequest struct {
	Tokens []tokenDTO `json:"tokens"`
}

type compileResponse struct {
	CompileID string `json:"compile_id"`
	Listing   string `json:"listing"`
	Symbols   string `json:"symbols"`
	Scopes    string `json:"scopes"`
}

func (s *Server) handleCompile(w http.ResponseWriter, req *http.Request) {
	defer s.recoverPanic(w, req)

	var body compileRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		s.writeError(w, req, http.StatusBadRequest, "malformed JSON body: "+err.Error())
		return
	}

	toks := make([]token.Token, len(body.Tokens))
	for i, td := range body.Tokens {
		toks[i] = token.New(token.MakeClass(td.Class), td.Lexeme, td.Line, td.LinePos)
	}

	result, err := s.Frontend.Compile(token.NewSliceStream(toks))
	if err != nil {
		wrapped := diag.Wrap(err, "could not compile the given token stream: "+err.Error(), err.Error())
		log.Printf("ERROR %s %s: compile failed: %s", req.Method, req.URL.Path, wrapped.Error())
		writeJSON(w, http.StatusUnprocessableEntity, apiError{Status: http.StatusUnprocessableEntity, Message: diag.Public(wrapped)})
		return
	}

	var compileID string
	if result.CompileID != uuid.Nil {
		compileID = result.CompileID.String()
	}

	writeJSON(w, http.StatusOK, compileResponse{
		CompileID: compileID,
		Listing:   result.Listing(),
		Symbols:   result.Symbols.String(),
		Scopes:    result.Scopes.String(),
	})
}
