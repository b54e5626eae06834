package mongo

import (
	"context"

	"github.com/google/uuid"
	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/legalconnect/intakego/internal/pkg/persistence"
	"github.com/pkg/errors"
)

// CaseSaver stores case records in mongo db
type CaseSaver struct {
	SessionProvider *SessionProvider
}

// NewCaseSaver creates CaseSaver instance
func NewCaseSaver(sessionProvider *SessionProvider) (*CaseSaver, error) {
	if sessionProvider == nil {
		return nil, errors.New("No session provider")
	}
	return &CaseSaver{SessionProvider: sessionProvider}, nil
}

// Create stores a new case record and returns its ID
func (cs *CaseSaver) Create(userID string, title string, caseType string, category string, description string) (string, error) {
	data := persistence.CaseRecord{ID: uuid.New().String(), UserID: userID, Title: title,
		Type: caseType, Category: category, Status: "open", Description: description}
	cmdapp.Log.Infof("Saving case %s for user %s", data.ID, data.UserID)

	ctx, cancel := mongoContext()
	defer cancel()

	session, err := cs.SessionProvider.NewSession()
	if err != nil {
		return "", err
	}
	defer session.EndSession(context.Background())

	c := session.Client().Database(store).Collection(caseTable)
	_, err = c.InsertOne(ctx, &data)
	if err != nil {
		return "", errors.Wrap(err, "Can't save case")
	}
	return data.ID, nil
}
