package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

const patientsCollection = "patients"

const idxUniqueAadhar = "uniq_aadhar_number"

type PatientRepository struct {
	coll *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) *PatientRepository {
	return &PatientRepository{coll: db.Collection(patientsCollection)}
}

// NewID reserves an identifier without touching the database. ObjectIDs are
// generated client-side, so the QR code can be derived before the insert.
func (r *PatientRepository) NewID() string {
	return primitive.NewObjectID().Hex()
}

func (r *PatientRepository) Create(ctx context.Context, p *domain.Patient) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateAadhar
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id string) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Patient
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return &p, nil
}

func (r *PatientRepository) List(ctx context.Context) ([]*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer cur.Close(ctx)

	return decodePatients(ctx, cur)
}

// Search matches each set filter as a case-insensitive substring; filters
// combine conjunctively.
func (r *PatientRepository) Search(ctx context.Context, filter ports.SearchFilter) ([]*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	addRegex(query, "name", filter.Name)
	addRegex(query, "city", filter.City)
	addRegex(query, "district", filter.District)
	addRegex(query, "state", filter.State)
	addRegex(query, "country", filter.Country)

	cur, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	defer cur.Close(ctx)

	return decodePatients(ctx, cur)
}

// Update applies the patch as a single $set, always rewriting the QR code
// and updated_at, and returns the post-update document.
func (r *PatientRepository) Update(ctx context.Context, id string, patch *domain.PatientPatch, qrCode string) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := patchToSet(patch)
	set["qr_code"] = qrCode
	set["updated_at"] = time.Now().UTC()

	var updated domain.Patient
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPatientNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateAadhar
		}
		return nil, fmt.Errorf("update patient: %w", err)
	}
	return &updated, nil
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

// EnsureIndexes creates the national-id uniqueness constraint and the
// fields the search endpoint filters on.
func (r *PatientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "aadhar_number", Value: 1}},
			Options: options.Index().SetName(idxUniqueAadhar).SetUnique(true),
		},
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "admin_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func addRegex(query bson.M, field, value string) {
	if value == "" {
		return
	}
	query[field] = bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
}

func decodePatients(ctx context.Context, cur *mongo.Cursor) ([]*domain.Patient, error) {
	var patients []*domain.Patient
	for cur.Next(ctx) {
		var p domain.Patient
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode patient: %w", err)
		}
		patients = append(patients, &p)
	}
	return patients, cur.Err()
}

// patchToSet translates the explicit patch structure into a $set document.
// Only supplied fields appear, so unspecified keys keep their prior values.
func patchToSet(p *domain.PatientPatch) bson.M {
	set := bson.M{}
	if p == nil {
		return set
	}

	setString := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setLab := func(key string, v *domain.LabResult) {
		if v != nil {
			set[key] = v
		}
	}
	setPanel := func(key string, v domain.LabPanel) {
		if v != nil {
			set[key] = v
		}
	}

	setString("name", p.Name)
	if p.Age != nil {
		set["age"] = *p.Age
	}
	setString("mobile", p.Mobile)
	setString("blood_group", p.BloodGroup)
	setString("address_line1", p.AddressLine1)
	setString("address", p.Address)
	setString("pincode", p.Pincode)
	setString("district", p.District)
	setString("city", p.City)
	setString("state", p.State)
	setString("country", p.Country)
	setString("gender", p.Gender)
	if p.DateOfBirth != nil {
		set["date_of_birth"] = *p.DateOfBirth
	}
	setString("aadhar_number", p.AadharNumber)

	setLab("hemoglobin", p.Hemoglobin)
	setLab("blood_pressure", p.BloodPressure)
	setLab("heart_rate", p.HeartRate)
	setLab("fasting_blood_sugar", p.FastingBloodSugar)
	setLab("calcium", p.Calcium)
	setPanel("blood_cbc", p.BloodCBC)
	setPanel("urine_test", p.UrineTest)
	setPanel("lipid_profile", p.LipidProfile)
	setPanel("tsh_test", p.TSHTest)

	setString("photo", p.Photo)
	if p.Documents != nil {
		set["documents"] = p.Documents
	}

	return set
}
