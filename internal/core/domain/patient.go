package domain

import "time"

// Genders accepted on patient records.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// LabResult is a single test reading. Range and Options are mutually
// informative: simple tests carry a reference range string, tests whose
// reference depends on sex/age carry a list of options instead.
type LabResult struct {
	Value   string   `json:"value,omitempty" bson:"value,omitempty"`
	Unit    string   `json:"unit,omitempty" bson:"unit,omitempty"`
	Range   string   `json:"range,omitempty" bson:"range,omitempty"`
	Options []string `json:"options,omitempty" bson:"options,omitempty"`
}

// LabPanel groups named test results, e.g. a complete blood count maps
// "rbcCount", "packedCellVolume", ... to their readings.
type LabPanel map[string]LabResult

// Document is a stored file attachment. It has no identity of its own; it
// lives embedded in the owning patient record.
type Document struct {
	FileName string `json:"fileName" bson:"file_name"`
	FileURL  string `json:"fileUrl" bson:"file_url"`
	FileType string `json:"fileType" bson:"file_type"`
}

// Patient is the core aggregate: demographics, lab panels, attachments and
// the derived QR code. AadharNumber is globally unique. The QR code is a
// cached derived value, always regenerable from the record id.
type Patient struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	AdminID      string    `json:"admin" bson:"admin_id"`
	Name         string    `json:"name" bson:"name"`
	Age          int       `json:"age" bson:"age"`
	Mobile       string    `json:"mobile" bson:"mobile"`
	BloodGroup   string    `json:"bloodGroup" bson:"blood_group"`
	AddressLine1 string    `json:"addressLine1,omitempty" bson:"address_line1,omitempty"`
	Address      string    `json:"address,omitempty" bson:"address,omitempty"`
	Pincode      string    `json:"pincode,omitempty" bson:"pincode,omitempty"`
	District     string    `json:"district,omitempty" bson:"district,omitempty"`
	City         string    `json:"city,omitempty" bson:"city,omitempty"`
	State        string    `json:"state,omitempty" bson:"state,omitempty"`
	Country      string    `json:"country,omitempty" bson:"country,omitempty"`
	Gender       string    `json:"gender" bson:"gender"`
	DateOfBirth  time.Time `json:"dateOfBirth" bson:"date_of_birth"`
	AadharNumber string    `json:"aadharNumber" bson:"aadhar_number"`

	Hemoglobin        *LabResult `json:"hemoglobin,omitempty" bson:"hemoglobin,omitempty"`
	BloodPressure     *LabResult `json:"bloodPressure,omitempty" bson:"blood_pressure,omitempty"`
	HeartRate         *LabResult `json:"heartRate,omitempty" bson:"heart_rate,omitempty"`
	FastingBloodSugar *LabResult `json:"fastingBloodSugar,omitempty" bson:"fasting_blood_sugar,omitempty"`
	Calcium           *LabResult `json:"calcium,omitempty" bson:"calcium,omitempty"`
	BloodCBC          LabPanel   `json:"bloodCbc,omitempty" bson:"blood_cbc,omitempty"`
	UrineTest         LabPanel   `json:"urineTest,omitempty" bson:"urine_test,omitempty"`
	LipidProfile      LabPanel   `json:"lipidProfile,omitempty" bson:"lipid_profile,omitempty"`
	TSHTest           LabPanel   `json:"tshTest,omitempty" bson:"tsh_test,omitempty"`

	Photo     string     `json:"photo,omitempty" bson:"photo,omitempty"`
	Documents []Document `json:"documentFiles" bson:"documents"`
	QRCode    string     `json:"qrCode" bson:"qr_code"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// ValidGender reports whether g is one of the accepted gender values.
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// PublicView strips the attachment list and the QR code. The photo stays
// visible: the public lookup page shows it next to the demographics.
type PublicView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Mobile       string    `json:"mobile"`
	BloodGroup   string    `json:"bloodGroup"`
	AddressLine1 string    `json:"addressLine1,omitempty"`
	Address      string    `json:"address,omitempty"`
	Pincode      string    `json:"pincode,omitempty"`
	District     string    `json:"district,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	Country      string    `json:"country,omitempty"`
	Gender       string    `json:"gender"`
	DateOfBirth  time.Time `json:"dateOfBirth"`
	AadharNumber string    `json:"aadharNumber"`

	Hemoglobin        *LabResult `json:"hemoglobin,omitempty"`
	BloodPressure     *LabResult `json:"bloodPressure,omitempty"`
	HeartRate         *LabResult `json:"heartRate,omitempty"`
	FastingBloodSugar *LabResult `json:"fastingBloodSugar,omitempty"`
	Calcium           *LabResult `json:"calcium,omitempty"`
	BloodCBC          LabPanel   `json:"bloodCbc,omitempty"`
	UrineTest         LabPanel   `json:"urineTest,omitempty"`
	LipidProfile      LabPanel   `json:"lipidProfile,omitempty"`
	TSHTest           LabPanel   `json:"tshTest,omitempty"`

	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public returns the unauthenticated projection of the record.
func (p *Patient) Public() *PublicView {
	return &PublicView{
		ID:           p.ID,
		Name:         p.Name,
		Age:          p.Age,
		Mobile:       p.Mobile,
		BloodGroup:   p.BloodGroup,
		AddressLine1: p.AddressLine1,
		Address:      p.Address,
		Pincode:      p.Pincode,
		District:     p.District,
		City:         p.City,
		State:        p.State,
		Country:      p.Country,
		Gender:       p.Gender,
		DateOfBirth:  p.DateOfBirth,
		AadharNumber: p.AadharNumber,

		Hemoglobin:        p.Hemoglobin,
		BloodPressure:     p.BloodPressure,
		HeartRate:         p.HeartRate,
		FastingBloodSugar: p.FastingBloodSugar,
		Calcium:           p.Calcium,
		BloodCBC:          p.BloodCBC,
		UrineTest:         p.UrineTest,
		LipidProfile:      p.LipidProfile,
		TSHTest:           p.TSHTest,

		Photo:     p.Photo,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PatientPatch is an explicit partial update: nil means "leave unchanged".
// Field names are compile-time checked against the aggregate, unlike the
// dynamic key copying this replaces.
type PatientPatch struct {
	Name         *string
	Age          *int
	Mobile       *string
	BloodGroup   *string
	AddressLine1 *string
	Address      *string
	Pincode      *string
	District     *string
	City         *string
	State        *string
	Country      *string
	Gender       *string
	DateOfBirth  *time.Time
	AadharNumber *string

	Hemoglobin        *LabResult
	BloodPressure     *LabResult
	HeartRate         *LabResult
	FastingBloodSugar *LabResult
	Calcium           *LabResult
	BloodCBC          LabPanel
	UrineTest         LabPanel
	LipidProfile      LabPanel
	TSHTest           LabPanel

	Photo     *string
	Documents []Document
}

// IsZero reports whether the patch carries no changes at all.
func (p *PatientPatch) IsZero() bool {
	return p.Name == nil && p.Age == nil && p.Mobile == nil && p.BloodGroup == nil &&
		p.AddressLine1 == nil && p.Address == nil && p.Pincode == nil &&
		p.District == nil && p.City == nil && p.State == nil && p.Country == nil &&
		p.Gender == nil && p.DateOfBirth == nil && p.AadharNumber == nil &&
		p.Hemoglobin == nil && p.BloodPressure == nil && p.HeartRate == nil &&
		p.FastingBloodSugar == nil && p.Calcium == nil &&
		p.BloodCBC == nil && p.UrineTest == nil && p.LipidProfile == nil && p.TSHTest == nil &&
		p.Photo == nil && p.Documents == nil
}
