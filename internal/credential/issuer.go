package credential

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/K-Charitharth/proof-of-learning/internal/catalog"
	"github.com/K-Charitharth/proof-of-learning/internal/quiz"
	"github.com/K-Charitharth/proof-of-learning/internal/session"
)

// Issuer mints a credential for a passing quiz attempt and records it
// in the ledger. By default re-passing the same course appends another
// credential; singlePerCourse switches on the stricter one-per-course
// policy.
type Issuer struct {
	store           Store
	minter          Minter
	catalog         *catalog.Catalog
	singlePerCourse bool
	now             func() time.Time
}

func NewIssuer(store Store, minter Minter, cat *catalog.Catalog, singlePerCourse bool) *Issuer {
	return &Issuer{
		store:           store,
		minter:          minter,
		catalog:         cat,
		singlePerCourse: singlePerCourse,
		now:             time.Now,
	}
}

// Issue requires a verified-human session and a passing result for the
// requested course. Both failures surface as ErrNotEligible; callers
// tell them apart from the session and result they already hold.
func (i *Issuer) Issue(ctx context.Context, sess session.Session, courseID string, result quiz.ScoreResult) (Credential, error) {
	if !sess.VerifiedHuman || !result.Passed || result.CourseID != courseID {
		return Credential{}, ErrNotEligible
	}
	course, err := i.catalog.Get(courseID)
	if err != nil {
		return Credential{}, err
	}
	if i.singlePerCourse {
		has, err := i.store.HasCourse(ctx, sess.ID, courseID)
		if err != nil {
			return Credential{}, err
		}
		if has {
			return Credential{}, ErrAlreadyIssued
		}
	}
	issuedAt := i.now()
	token, err := i.minter.Mint(ctx, sess.Account, course.Title, issuedAt)
	if err != nil {
		return Credential{}, err
	}
	c := Credential{
		ID:         uuid.NewString(),
		CourseID:   courseID,
		CourseName: course.Title,
		IssueDate:  issuedAt.Format("2006-01-02"),
		TokenID:    token,
		Verified:   true,
	}
	if err := i.store.Append(ctx, sess.ID, c); err != nil {
		return Credential{}, err
	}
	return c, nil
}

// List returns the session's credentials in issuance order.
func (i *Issuer) List(ctx context.Context, sessionID string) ([]Credential, error) {
	return i.store.List(ctx, sessionID)
}
