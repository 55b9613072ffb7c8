package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/K-Charitharth/proof-of-learning/internal/auth/middleware"
	"github.com/K-Charitharth/proof-of-learning/internal/credential"
)

// ListCredentialsHandler returns the session ledger in issuance order.
func ListCredentialsHandler(issuer *credential.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := authmw.SubjectFromContext(r.Context())
		creds, err := issuer.List(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if creds == nil {
			creds = []credential.Credential{}
		}
		_ = json.NewEncoder(w).Encode(creds)
	}
}

// GetCredentialHandler is the contract read-back: token id in, course
// name, completion date and verified flag out.
func GetCredentialHandler(minter credential.Minter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		minted, err := minter.Credential(r.Context(), chi.URLParam(r, "tokenID"))
		if err != nil {
			writeError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(minted)
	}
}
