package services

import (
	"deadline_flow_go/models"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// Generator errors
var (
	ErrValidation   = errors.New("validation failed")
	ErrCaseNotFound = errors.New("case not found")
)

// JurisdictionResolver resolves a case's jurisdiction. Case lifecycle data
// lives in an external collaborator; this is its seam.
type JurisdictionResolver interface {
	ResolveJurisdiction(caseID string) (string, error)
}

// CaseRefResolver is the default resolver, reading the locally persisted
// CaseRef projection
type CaseRefResolver struct {
	DB *gorm.DB
}

func (r *CaseRefResolver) ResolveJurisdiction(caseID string) (string, error) {
	var ref models.CaseRef
	if err := r.DB.First(&ref, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrCaseNotFound
		}
		return "", err
	}
	return ref.JurisdictionID, nil
}

// TriggerInput is the inbound trigger event from the case-lifecycle collaborator
type TriggerInput struct {
	CaseID          string                 `json:"case_id"`
	TriggerEvent    string                 `json:"trigger_event"`
	TriggerDate     time.Time              `json:"trigger_date"`
	CustomEventName string                 `json:"custom_event_name,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// GeneratorOptions carries engine policy knobs resolved from configuration
type GeneratorOptions struct {
	RollForwardLandingDays bool
}

// TemplateError records why one template's generation failed. Failures are
// isolated: one bad template never aborts the rest of the batch.
type TemplateError struct {
	TemplateID   string `json:"template_id"`
	TemplateName string `json:"template_name"`
	Message      string `json:"message"`
}

// GenerationResult is the aggregate outcome of one trigger event: the
// deliberate partial-success model. Callers always receive successes and
// per-template failures together.
type GenerationResult struct {
	Generated []models.AutomatedDeadline `json:"generated"`
	Skipped   []string                   `json:"skipped"` // template IDs already materialized for this trigger
	Errors    []TemplateError            `json:"errors"`
}

// GenerateDeadlines runs the full pipeline for one trigger event: resolve
// the case's jurisdiction, find matching templates, and for each template
// independently compute a due date and persist the AutomatedDeadline, its
// linked Deadline, and its DeadlineCalculation audit snapshot as one
// transactional unit.
//
// Generation is keyed on (caseID, triggerEvent, triggerDate, templateID):
// re-delivery of the same logical trigger skips already-materialized
// templates, so retries after a partial failure resume only the failures.
func GenerateDeadlines(db *gorm.DB, resolver JurisdictionResolver, opts GeneratorOptions, input TriggerInput) (*GenerationResult, error) {
	if err := validateTrigger(input); err != nil {
		return nil, err
	}

	jurisdictionID, err := resolver.ResolveJurisdiction(input.CaseID)
	if err != nil {
		if errors.Is(err, ErrCaseNotFound) {
			return nil, fmt.Errorf("%w: unknown case %q", ErrValidation, input.CaseID)
		}
		return nil, err
	}

	templates, err := FindMatchingTemplates(db, input.TriggerEvent, jurisdictionID)
	if err != nil {
		return nil, err
	}

	// No matching templates is success with zero deadlines
	result := &GenerationResult{}

	for i := range templates {
		template := templates[i]

		materialized, err := alreadyGenerated(db, input, template.ID)
		if err != nil {
			result.Errors = append(result.Errors, templateError(template, err))
			continue
		}
		if materialized {
			result.Skipped = append(result.Skipped, template.ID)
			continue
		}

		var generated *models.AutomatedDeadline
		err = db.Transaction(func(tx *gorm.DB) error {
			var txErr error
			generated, txErr = generateForTemplate(tx, input, jurisdictionID, &template, opts)
			return txErr
		})
		if err != nil {
			// A failed audit write lands here too: the transaction rolled the
			// AutomatedDeadline/Deadline pair back, so no deadline can exist
			// without its calculation record
			log.Printf("[GENERATOR] Template %s (%s) failed for case %s: %v",
				template.ID, template.Name, input.CaseID, err)
			result.Errors = append(result.Errors, templateError(template, err))
			continue
		}

		result.Generated = append(result.Generated, *generated)
	}

	log.Printf("[GENERATOR] Trigger %s for case %s: %d generated, %d skipped, %d failed",
		input.TriggerEvent, input.CaseID, len(result.Generated), len(result.Skipped), len(result.Errors))

	return result, nil
}

func validateTrigger(input TriggerInput) error {
	if input.CaseID == "" {
		return fmt.Errorf("%w: case id is required", ErrValidation)
	}
	if input.TriggerEvent == "" {
		return fmt.Errorf("%w: trigger event is required", ErrValidation)
	}
	if !models.KnownTriggerEvent(input.TriggerEvent) {
		return fmt.Errorf("%w: unknown trigger event %q", ErrValidation, input.TriggerEvent)
	}
	if input.TriggerEvent == models.TriggerCustomEvent && input.CustomEventName == "" {
		return fmt.Errorf("%w: custom trigger requires an event name", ErrValidation)
	}
	if input.TriggerDate.IsZero() {
		return fmt.Errorf("%w: trigger date is required", ErrValidation)
	}
	return nil
}

func alreadyGenerated(db *gorm.DB, input TriggerInput, templateID string) (bool, error) {
	var count int64
	err := db.Model(&models.AutomatedDeadline{}).
		Where("case_id = ? AND trigger_event = ? AND trigger_date = ? AND template_id = ?",
			input.CaseID, input.TriggerEvent, input.TriggerDate, templateID).
		Count(&count).Error
	return count > 0, err
}

// generateForTemplate is one isolated unit of work, always called inside a
// transaction: compute, persist deadline pair, persist audit snapshot
func generateForTemplate(tx *gorm.DB, input TriggerInput, jurisdictionID string, template *models.DeadlineTemplate, opts GeneratorOptions) (*models.AutomatedDeadline, error) {
	cal, err := LoadCalendarSnapshot(tx, jurisdictionID)
	if err != nil {
		return nil, err
	}

	calcInput := CalculationInput{
		TriggerDate:       input.TriggerDate,
		TimeLimit:         template.TimeLimit,
		TimeLimitUnit:     template.TimeLimitUnit,
		CalculationMethod: template.CalculationMethod,
		IncludeWeekends:   template.IncludeWeekends,
		IncludeHolidays:   template.IncludeHolidays,
		BusinessDaysOnly:  template.BusinessDaysOnly,
		CustomStrategy:    template.CustomStrategy,
		JurisdictionID:    jurisdictionID,
		RollForward:       opts.RollForwardLandingDays,
	}

	calc, err := ComputeDueDate(calcInput, cal)
	if err != nil {
		return nil, err
	}

	title := template.Name
	if input.TriggerEvent == models.TriggerCustomEvent && input.CustomEventName != "" {
		title = fmt.Sprintf("%s (%s)", template.Name, input.CustomEventName)
	}

	deadline := models.Deadline{
		CaseID:       input.CaseID,
		Title:        title,
		DueDate:      calc.CalculatedDate,
		Status:       models.DownstreamStatusPending,
		Priority:     template.Priority,
		ReminderDays: template.ReminderDays,
		IsAutomated:  true,
	}
	if err := tx.Create(&deadline).Error; err != nil {
		return nil, err
	}

	automated := models.AutomatedDeadline{
		TemplateID:        template.ID,
		CaseID:            input.CaseID,
		TriggerEvent:      input.TriggerEvent,
		TriggerDate:       input.TriggerDate,
		DueDate:           calc.CalculatedDate,
		OriginalDays:      template.TimeLimit,
		ActualDays:        calc.ActualDays,
		CalculationMethod: template.CalculationMethod,
		Status:            models.DeadlineStatusPending,
		DeadlineID:        deadline.ID,
	}
	if err := tx.Create(&automated).Error; err != nil {
		return nil, err
	}

	if err := recordCalculation(tx, &automated, template, calcInput, calc, models.CalculationReasonInitial, nil); err != nil {
		return nil, err
	}

	return &automated, nil
}

// recordCalculation appends the immutable audit snapshot for one calculation
// attempt, allocating its sequence number inside the same transaction
func recordCalculation(tx *gorm.DB, automated *models.AutomatedDeadline, template *models.DeadlineTemplate, calcInput CalculationInput, calc CalculationResult, reason string, recordedBy *string) error {
	seq, err := nextCalculationSeq(tx)
	if err != nil {
		return err
	}

	parameters, err := json.Marshal(calcInput)
	if err != nil {
		return err
	}

	snapshot := models.DeadlineCalculation{
		Seq:                 seq,
		AutomatedDeadlineID: automated.ID,
		TemplateID:          template.ID,
		CaseID:              automated.CaseID,
		JurisdictionID:      calcInput.JurisdictionID,
		CourtRuleID:         template.CourtRuleID,
		TriggerEvent:        automated.TriggerEvent,
		TriggerDate:         automated.TriggerDate,
		Parameters:          string(parameters),
		CalculationMethod:   calcInput.CalculationMethod,
		CalculatedDate:      calc.CalculatedDate,
		ActualDays:          calc.ActualDays,
		Reason:              reason,
		RecordedBy:          recordedBy,
	}
	return tx.Create(&snapshot).Error
}

// nextCalculationSeq bumps the shared calculation counter. The UPDATE runs
// inside the caller's transaction; SQLite serializes writers, so concurrent
// generation runs never draw the same number.
func nextCalculationSeq(tx *gorm.DB) (int64, error) {
	result := tx.Model(&models.SequenceCounter{}).
		Where("name = ?", models.CounterCalculationSeq).
		Update("value", gorm.Expr("value + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		counter := models.SequenceCounter{Name: models.CounterCalculationSeq, Value: 1}
		if err := tx.Create(&counter).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	var counter models.SequenceCounter
	if err := tx.First(&counter, "name = ?", models.CounterCalculationSeq).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}

func templateError(template models.DeadlineTemplate, err error) TemplateError {
	return TemplateError{
		TemplateID:   template.ID,
		TemplateName: template.Name,
		Message:      err.Error(),
	}
}
