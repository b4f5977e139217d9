package propagation

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/multierr"

	"github.com/linesmerrill/telehealth-api/databases"
	"github.com/linesmerrill/telehealth-api/models"
)

// PatientProfileInput carries the fields of a patient profile save. A nil
// field is left untouched; a non-nil field is applied even when zero.
type PatientProfileInput struct {
	Name             *string                `json:"name"`
	Age              *int                   `json:"age"`
	Gender           *string                `json:"gender"`
	Contact          *string                `json:"contact"`
	Address          *string                `json:"address"`
	DateOfBirth      *string                `json:"dateOfBirth"`
	BloodGroup       *string                `json:"bloodGroup"`
	Height           *string                `json:"height"`
	Weight           *string                `json:"weight"`
	EmergencyContact *string                `json:"emergencyContact"`
	ProfileImage     *string                `json:"profileImage"`
	Payment          *models.Payment        `json:"payment"`
	HealthRecord     *[]models.HealthRecord `json:"healthRecord"`
}

// DayInput is the requested availability of one weekday
type DayInput struct {
	Enabled bool              `json:"enabled"`
	Slots   []models.TimeSlot `json:"slots"`
}

// DoctorProfileInput carries the fields of a doctor profile save, with the
// same presence rules as PatientProfileInput
type DoctorProfileInput struct {
	Name            *string             `json:"name"`
	Gender          *string             `json:"gender"`
	Contact         *string             `json:"contact"`
	Hospital        *string             `json:"hospital"`
	RegistrationNo  *string             `json:"registrationNo"`
	Specializations *[]string           `json:"specializations"`
	Qualifications  *[]string           `json:"qualifications"`
	Experience      *int                `json:"experience"`
	ConsultationFee *float64            `json:"consultationFee"`
	Bio             *string             `json:"bio"`
	ProfileImage    *string             `json:"profileImage"`
	AvailableSlots  map[string]DayInput `json:"availableSlots"`
}

func put[T any](set bson.M, key string, v *T) {
	if v != nil {
		set[key] = *v
	}
}

func value[T any](v *T) (out T) {
	if v != nil {
		out = *v
	}
	return out
}

// SavePatientProfile creates the patient record on first use and merges the
// supplied fields into it afterwards. The admin copy follows either way.
func (s *Service) SavePatientProfile(ctx context.Context, userID string, in PatientProfileInput) (*models.Patient, error) {
	if err := missing([2]string{"userId", userID}); err != nil {
		return nil, err
	}
	existing, err := s.patients.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, databases.ErrNotFound) {
		return nil, &Error{Kind: KindPersistenceWrite, Code: CodeProfileNotSaved, Message: "failed to load patient profile", Err: err}
	}
	creating := existing == nil

	set := bson.M{}
	put(set, "name", in.Name)
	put(set, "age", in.Age)
	put(set, "gender", in.Gender)
	put(set, "contact", in.Contact)
	put(set, "address", in.Address)
	put(set, "dateOfBirth", in.DateOfBirth)
	put(set, "bloodGroup", in.BloodGroup)
	put(set, "height", in.Height)
	put(set, "weight", in.Weight)
	put(set, "emergencyContact", in.EmergencyContact)
	put(set, "profileImage", in.ProfileImage)
	put(set, "payment", in.Payment)
	put(set, "healthRecord", in.HealthRecord)

	var account *models.Account
	if creating {
		if err := missing(
			[2]string{"name", value(in.Name)},
			[2]string{"gender", value(in.Gender)},
			[2]string{"contact", value(in.Contact)},
		); err != nil {
			return nil, err
		}
		if account, err = s.account(ctx, userID, models.RolePatient); err != nil {
			return nil, err
		}
		set["email"] = account.Email
	}
	if in.Payment != nil && in.Payment.PrimaryCount() > 1 {
		return nil, validationError(CodeMultiplePrimary, "at most one payment method may be primary",
			map[string]string{"payment": "multiple primary methods"})
	}
	now := s.now()
	set["updatedAt"] = now

	g := &saga{op: "save patient profile", userID: userID, failCode: CodeProfileNotSaved}
	var saved *models.Patient
	g.add("upsert patient profile", targetPatient, func(ctx context.Context) error {
		return s.patients.UpsertProfile(ctx, userID, set)
	})
	g.add("reload patient profile", targetPatient, func(ctx context.Context) (err error) {
		saved, err = s.patients.FindByUserID(ctx, userID)
		return err
	})
	g.add("mirror patient profile", targetAdmin, func(ctx context.Context) error {
		return s.mirrorProfile(ctx, databases.PatientDetails, userID, *saved)
	})
	if creating {
		g.add("register patient", targetAdmin, func(ctx context.Context) error {
			return s.admin.PushRegister(ctx, databases.PatientDetails, models.RegistrationAudit{
				UserID:       userID,
				Email:        account.Email,
				Name:         saved.Name,
				RegisteredAt: now,
			})
		})
	}
	if err := s.run(ctx, g); err != nil {
		return nil, err
	}
	return saved, nil
}

// SaveDoctorProfile is SavePatientProfile for doctors. The weekly schedule is
// validated in full before anything is written.
func (s *Service) SaveDoctorProfile(ctx context.Context, userID string, in DoctorProfileInput) (*models.Doctor, error) {
	if err := missing([2]string{"userId", userID}); err != nil {
		return nil, err
	}
	existing, err := s.doctors.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, databases.ErrNotFound) {
		return nil, &Error{Kind: KindPersistenceWrite, Code: CodeProfileNotSaved, Message: "failed to load doctor profile", Err: err}
	}
	creating := existing == nil

	set := bson.M{}
	put(set, "name", in.Name)
	put(set, "gender", in.Gender)
	put(set, "contact", in.Contact)
	put(set, "hospital", in.Hospital)
	put(set, "specializations", in.Specializations)
	put(set, "qualifications", in.Qualifications)
	put(set, "experience", in.Experience)
	put(set, "consultationFee", in.ConsultationFee)
	put(set, "bio", in.Bio)
	put(set, "profileImage", in.ProfileImage)
	if in.RegistrationNo != nil && *in.RegistrationNo != "" {
		set[models.RegistrationNoField] = *in.RegistrationNo
	}

	if creating || in.AvailableSlots != nil {
		base := DefaultSchedule()
		if !creating {
			base = existing.AvailableSlots
		}
		schedule, err := MergeSchedule(base, in.AvailableSlots)
		if err != nil {
			return nil, err
		}
		set["availableSlots"] = schedule
	}

	var account *models.Account
	if creating {
		if err := missing(
			[2]string{"name", value(in.Name)},
			[2]string{"contact", value(in.Contact)},
			[2]string{"hospital", value(in.Hospital)},
		); err != nil {
			return nil, err
		}
		if account, err = s.account(ctx, userID, models.RoleDoctor); err != nil {
			return nil, err
		}
		set["email"] = account.Email
		if _, ok := set[models.RegistrationNoField]; !ok && account.RegistrationNo != "" {
			set[models.RegistrationNoField] = account.RegistrationNo
		}
	}
	if regNo, ok := set[models.RegistrationNoField].(string); ok {
		if err := s.checkRegistration(ctx, userID, regNo); err != nil {
			return nil, err
		}
	}
	now := s.now()
	set["updatedAt"] = now

	g := &saga{op: "save doctor profile", userID: userID, failCode: CodeProfileNotSaved}
	var saved *models.Doctor
	g.add("upsert doctor profile", targetDoctor, func(ctx context.Context) error {
		return s.doctors.UpsertProfile(ctx, userID, set)
	})
	g.add("reload doctor profile", targetDoctor, func(ctx context.Context) (err error) {
		saved, err = s.doctors.FindByUserID(ctx, userID)
		return err
	})
	g.add("mirror doctor profile", targetAdmin, func(ctx context.Context) error {
		return s.mirrorProfile(ctx, databases.DoctorDetails, userID, *saved)
	})
	if creating {
		g.add("register doctor", targetAdmin, func(ctx context.Context) error {
			return s.admin.PushRegister(ctx, databases.DoctorDetails, models.RegistrationAudit{
				UserID:         userID,
				Email:          account.Email,
				Name:           saved.Name,
				RegistrationNo: saved.RegistrationNo,
				RegisteredAt:   now,
			})
		})
	}
	if err := s.run(ctx, g); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *Service) mirrorProfile(ctx context.Context, side databases.MirrorSide, userID string, record interface{}) error {
	if s.opts.AppendAdminProfiles {
		return s.admin.PushDetails(ctx, side, record)
	}
	return s.admin.UpsertDetails(ctx, side, userID, record)
}

// account returns the login identity behind a new profile
func (s *Service) account(ctx context.Context, userID string, role models.Role) (*models.Account, error) {
	a, err := s.accounts.FindByUserID(ctx, userID)
	if errors.Is(err, databases.ErrNotFound) {
		return nil, &Error{
			Kind:    KindNotFound,
			Code:    CodeReferencedAccountNotFound,
			Message: fmt.Sprintf("no account exists for user %q", userID),
			Details: map[string]string{"userId": userID},
		}
	}
	if err != nil {
		return nil, &Error{Kind: KindPersistenceWrite, Code: CodeProfileNotSaved, Message: "failed to load account", Err: err}
	}
	if a.Role != "" && a.Role != role {
		return nil, validationError(CodeInvalidRole, fmt.Sprintf("account %q is not a %s", userID, role),
			map[string]string{"role": string(a.Role)})
	}
	return a, nil
}

func (s *Service) checkRegistration(ctx context.Context, userID, regNo string) error {
	other, err := s.doctors.FindByRegistrationNo(ctx, regNo)
	switch {
	case errors.Is(err, databases.ErrNotFound):
		return nil
	case err != nil:
		return &Error{Kind: KindPersistenceWrite, Code: CodeProfileNotSaved, Message: "failed to check registration number", Err: err}
	case other.UserID != userID:
		return &Error{
			Kind:    KindDuplicateKey,
			Code:    CodeDuplicateRegistration,
			Message: fmt.Sprintf("registration number %q is already in use", regNo),
			Details: map[string]string{models.RegistrationNoField: regNo},
		}
	}
	return nil
}

// DefaultSchedule is the week of a new doctor: every day disabled with the default slot
func DefaultSchedule() models.WeeklySchedule {
	var w models.WeeklySchedule
	for _, d := range models.Weekdays() {
		w[d] = models.DaySchedule{Slots: []models.TimeSlot{models.DefaultSlot()}}
	}
	return w
}

// BuildSchedule turns the requested availability into a full week. Days that
// are not mentioned are disabled and days without slots get the default slot.
func BuildSchedule(in map[string]DayInput) (models.WeeklySchedule, error) {
	return MergeSchedule(DefaultSchedule(), in)
}

// MergeSchedule applies the requested days over base and keeps every other day
// as it was. The whole week is validated afterwards.
func MergeSchedule(base models.WeeklySchedule, in map[string]DayInput) (models.WeeklySchedule, error) {
	w := base
	for name, day := range in {
		wd, ok := models.ParseWeekday(name)
		if !ok {
			return w, validationError(CodeInvalidWeekday, fmt.Sprintf("%q is not a weekday", name),
				map[string]string{name: "unknown weekday"})
		}
		slots := day.Slots
		if len(slots) == 0 {
			slots = []models.TimeSlot{models.DefaultSlot()}
		}
		w[wd] = models.DaySchedule{Enabled: day.Enabled, Slots: slots}
	}
	if err := w.Validate(); err != nil {
		details := map[string]string{}
		for _, e := range multierr.Errors(err) {
			var sf *models.SlotFormatError
			if errors.As(e, &sf) {
				details[sf.Day.String()+"["+strconv.Itoa(sf.Index)+"]"] = sf.Error()
			}
		}
		return w, validationError(CodeTimeFormatInvalid, "invalid time format in available slots", details)
	}
	return w, nil
}
