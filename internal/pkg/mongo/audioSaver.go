package mongo

import (
	"context"

	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/legalconnect/intakego/internal/pkg/persistence"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AudioSaver stores audio records in mongo db
type AudioSaver struct {
	SessionProvider *SessionProvider
}

// NewAudioSaver creates AudioSaver instance
func NewAudioSaver(sessionProvider *SessionProvider) (*AudioSaver, error) {
	if sessionProvider == nil {
		return nil, errors.New("No session provider")
	}
	return &AudioSaver{SessionProvider: sessionProvider}, nil
}

// Save stores the audio record
func (as *AudioSaver) Save(data *persistence.AudioRecord) error {
	cmdapp.Log.Infof("Saving audio record %s", data.ID)

	ctx, cancel := mongoContext()
	defer cancel()

	session, err := as.SessionProvider.NewSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	c := session.Client().Database(store).Collection(audioTable)
	_, err = c.InsertOne(ctx, data)
	return err
}

// LinkCase sets the case ID on the audio record. The update never inserts,
// Save always precedes it. Repeating it with the same values changes nothing
func (as *AudioSaver) LinkCase(id string, caseID string) error {
	cmdapp.Log.Infof("Linking audio %s to case %s", id, caseID)
	return as.update(bson.M{"ID": sanitize(id)}, bson.M{"caseID": caseID})
}

// AssignLawyer sets the lawyer on every audio record linked to the case
func (as *AudioSaver) AssignLawyer(caseID string, lawyerID string) error {
	cmdapp.Log.Infof("Assigning lawyer %s for case %s", lawyerID, caseID)
	return as.update(bson.M{"caseID": sanitize(caseID)}, bson.M{"lawyerID": lawyerID})
}

func (as *AudioSaver) update(filter bson.M, set bson.M) error {
	ctx, cancel := mongoContext()
	defer cancel()

	session, err := as.SessionProvider.NewSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	c := session.Client().Database(store).Collection(audioTable)
	_, err = c.UpdateMany(ctx, filter, bson.M{"$set": set},
		options.Update().SetUpsert(false))
	return err
}

// Get retrieves an audio record by ID
func (as *AudioSaver) Get(id string) (*persistence.AudioRecord, error) {
	ctx, cancel := mongoContext()
	defer cancel()

	session, err := as.SessionProvider.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(context.Background())

	c := session.Client().Database(store).Collection(audioTable)
	var res persistence.AudioRecord
	err = c.FindOne(ctx, bson.M{"ID": sanitize(id)}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, errors.Wrap(err, "Can't get audio record")
	}
	return &res, nil
}

// GetAll retrieves all audio records
func (as *AudioSaver) GetAll() ([]persistence.AudioRecord, error) {
	ctx, cancel := mongoContext()
	defer cancel()

	session, err := as.SessionProvider.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(context.Background())

	c := session.Client().Database(store).Collection(audioTable)
	cursor, err := c.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "Can't get audio records")
	}
	defer cursor.Close(ctx)
	res := make([]persistence.AudioRecord, 0)
	if err = cursor.All(ctx, &res); err != nil {
		return nil, errors.Wrap(err, "Can't read audio records")
	}
	return res, nil
}

// ErrNoRecord indicates missing record in db
var ErrNoRecord = errors.New("record not found")
