package service

import (
	"context"
	"strings"

	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/storage"
	"github.com/volunteer-hub/internal/types"
)

// LetterContext carries the substitution values for letter generation.
// Empty fields fall back to neutral placeholders rather than failing.
type LetterContext struct {
	Type           types.LetterType  `json:"type"`
	SenderName     string            `json:"senderName"`
	SenderEmail    string            `json:"senderEmail,omitempty"`
	RecipientName  string            `json:"recipientName,omitempty"`
	Organization   string            `json:"organization,omitempty"`
	Role           string            `json:"role,omitempty"`
	Reason         string            `json:"reason,omitempty"`
	Experience     string            `json:"experience,omitempty"`
	Skills         string            `json:"skills,omitempty"`
	Availability   string            `json:"availability,omitempty"`
	PreviousAction string            `json:"previousAction,omitempty"`
	AdditionalInfo string            `json:"additionalInfo,omitempty"`
	CustomFields   map[string]string `json:"customFields,omitempty"`
	OpportunityID  string            `json:"opportunityId,omitempty"`
}

// GeneratedLetter is the generation result before the user saves it.
type GeneratedLetter struct {
	Subject      string   `json:"subject"`
	Body         string   `json:"body"`
	QualityScore float64  `json:"qualityScore"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

// LetterService generates letters by template substitution and manages the
// user's saved drafts.
type LetterService struct {
	store storage.Store
}

// NewLetterService creates a new letter service
func NewLetterService(store storage.Store) *LetterService {
	return &LetterService{store: store}
}

// Generate fills the template for the context's letter type. Unknown types
// fall back to the application template.
func (s *LetterService) Generate(ctx *LetterContext) *GeneratedLetter {
	template, ok := letterTemplates[ctx.Type]
	if !ok {
		template = letterTemplates[types.LetterApplication]
	}

	body := fillTemplate(template, ctx)
	subject := subjectFor(ctx)
	score := assessQuality(body, ctx)

	return &GeneratedLetter{
		Subject:      subject,
		Body:         body,
		QualityScore: score,
		Suggestions:  suggestionsFor(body, ctx, score),
	}
}

// GenerateAndSave generates the letter and stores it as a draft.
func (s *LetterService) GenerateAndSave(c context.Context, ctx *LetterContext) (*models.Letter, *GeneratedLetter, error) {
	generated := s.Generate(ctx)
	letter := &models.Letter{
		OpportunityID: ctx.OpportunityID,
		Type:          ctx.Type,
		Subject:       generated.Subject,
		Content:       generated.Body,
		Status:        types.LetterDraft,
	}
	saved, err := s.store.InsertLetter(c, letter)
	if err != nil {
		return nil, nil, err
	}
	return saved, generated, nil
}

// List returns the user's saved letters.
func (s *LetterService) List(ctx context.Context) ([]*models.Letter, error) {
	return s.store.ListLetters(ctx)
}

// Update rewrites a saved letter.
func (s *LetterService) Update(ctx context.Context, letter *models.Letter) (*models.Letter, error) {
	return s.store.UpdateLetter(ctx, letter)
}

// Delete removes a saved letter.
func (s *LetterService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteLetter(ctx, id)
}

// MarkSent flips a draft to sent.
func (s *LetterService) MarkSent(ctx context.Context, letter *models.Letter) (*models.Letter, error) {
	letter.Status = types.LetterSent
	return s.store.UpdateLetter(ctx, letter)
}

func fillTemplate(template string, ctx *LetterContext) string {
	replacements := map[string]string{
		"{sender_name}":     orDefault(ctx.SenderName, "[Your Name]"),
		"{sender_email}":    orDefault(ctx.SenderEmail, "[Your Email]"),
		"{recipient_name}":  orDefault(ctx.RecipientName, "Hiring Manager"),
		"{organization}":    orDefault(ctx.Organization, "your organization"),
		"{role}":            orDefault(ctx.Role, "volunteer"),
		"{reason}":          orDefault(ctx.Reason, "I am passionate about making a positive impact"),
		"{experience}":      ctx.Experience,
		"{skills}":          ctx.Skills,
		"{availability}":    orDefault(ctx.Availability, "flexible schedule"),
		"{previous_action}": orDefault(ctx.PreviousAction, "previous inquiry"),
		"{additional_info}": ctx.AdditionalInfo,
	}

	// Custom fields override the built-in substitutions.
	for key, value := range ctx.CustomFields {
		replacements["{"+key+"}"] = value
	}

	result := template
	for key, value := range replacements {
		result = strings.ReplaceAll(result, key, value)
	}

	return cleanEmptySections(result)
}

// cleanEmptySections drops lines that are nothing but an unfilled
// bracketed placeholder, keeping blank lines for paragraph breaks.
func cleanEmptySections(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			cleaned = append(cleaned, line)
			continue
		}
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}

func subjectFor(ctx *LetterContext) string {
	switch ctx.Type {
	case types.LetterApplication:
		return "Volunteer Application - " + orDefault(ctx.Role, "General Volunteer")
	case types.LetterThankYou:
		return "Thank You - " + orDefault(ctx.Organization, "Volunteer Experience")
	case types.LetterOutreach:
		return "Volunteer Opportunity Inquiry - " + ctx.Organization
	case types.LetterFollowUp:
		return "Follow Up - " + orDefault(ctx.PreviousAction, "Volunteer Application")
	case types.LetterPartnership:
		return "Partnership Proposal - Volunteer Program"
	case types.LetterRecommendationRequest:
		return "Recommendation Request - Volunteer Service"
	case types.LetterConfirmation:
		return "Confirmation - " + orDefault(ctx.Role, "Volunteer Commitment")
	case types.LetterCancellation:
		return "Schedule Change - " + orDefault(ctx.Role, "Volunteer Session")
	default:
		return "Volunteer Inquiry"
	}
}

// assessQuality starts from 1.0 and deducts for missing personalization
// and poor length, bounded to [0, 1].
func assessQuality(body string, ctx *LetterContext) float64 {
	score := 1.0

	if ctx.SenderName == "" || strings.Contains(body, "[Your Name]") {
		score -= 0.1
	}
	if ctx.Organization == "" || strings.Contains(body, "your organization") {
		score -= 0.05
	}

	wordCount := len(strings.Fields(body))
	if wordCount < 50 {
		score -= 0.1
	} else if wordCount > 500 {
		score -= 0.05
	}

	if ctx.RecipientName != "" && strings.Contains(body, ctx.RecipientName) {
		score += 0.05
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func suggestionsFor(body string, ctx *LetterContext, score float64) []string {
	if score >= 1.0 {
		return nil
	}

	var suggestions []string
	if strings.Contains(body, "[Your Name]") {
		suggestions = append(suggestions, "Add your name to personalize the letter")
	}
	if strings.Contains(body, "your organization") {
		suggestions = append(suggestions, "Specify the organization name")
	}
	if len(strings.Fields(body)) < 100 {
		suggestions = append(suggestions, "Consider adding more detail about your qualifications")
	}
	if ctx.Experience == "" {
		suggestions = append(suggestions, "Adding relevant experience can strengthen your application")
	}
	if ctx.Skills == "" {
		suggestions = append(suggestions, "Highlighting specific skills can make your letter more compelling")
	}
	return suggestions
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

var letterTemplates = map[types.LetterType]string{
	types.LetterApplication: `Dear {recipient_name},

I am writing to express my interest in volunteering as a {role} with {organization}. {reason}

{experience}

I am available {availability} and am committed to contributing meaningfully to your mission.

{skills}

{additional_info}

Thank you for considering my application. I look forward to the opportunity to contribute to your important work.

Sincerely,
{sender_name}
{sender_email}`,

	types.LetterThankYou: `Dear {recipient_name},

I wanted to express my heartfelt gratitude for the opportunity to volunteer with {organization}.

{experience}

The experience has been incredibly rewarding, and I have learned so much from working with your team.

{additional_info}

Thank you again for your guidance and support throughout my time volunteering.

With appreciation,
{sender_name}`,

	types.LetterOutreach: `Dear {recipient_name},

I am reaching out to inquire about volunteer opportunities with {organization}. {reason}

{experience}

I would love to learn more about how I can contribute to your mission. {additional_info}

Would you be available for a brief call or meeting to discuss potential opportunities?

Best regards,
{sender_name}
{sender_email}`,

	types.LetterFollowUp: `Dear {recipient_name},

I hope this message finds you well. I am following up on my {previous_action} regarding volunteer opportunities with {organization}.

{additional_info}

I remain very interested in contributing to your mission and would appreciate any updates you might have.

Please let me know if there is any additional information I can provide.

Thank you for your time.

Best regards,
{sender_name}
{sender_email}`,

	types.LetterPartnership: `Dear {recipient_name},

I am reaching out on behalf of our organization to explore potential partnership opportunities with {organization}.

{reason}

We believe that together, we could make a significant impact in our community through coordinated volunteer efforts.

{additional_info}

I would welcome the opportunity to discuss this further at your convenience.

Best regards,
{sender_name}
{sender_email}`,

	types.LetterRecommendationRequest: `Dear {recipient_name},

I hope this message finds you well. I am reaching out to request a letter of recommendation for my volunteer service with {organization}.

{experience}

{additional_info}

If you are able to provide a recommendation, I would be happy to provide any additional information that might be helpful.

Thank you for considering my request.

Sincerely,
{sender_name}
{sender_email}`,

	types.LetterConfirmation: `Dear {recipient_name},

I am writing to confirm my commitment to volunteer as a {role} with {organization}.

I understand that I will be volunteering {availability}.

{additional_info}

Please let me know if there is anything I should prepare or bring.

Thank you, and I look forward to contributing to your team.

Best regards,
{sender_name}
{sender_email}`,

	types.LetterCancellation: `Dear {recipient_name},

I regret to inform you that I need to cancel/reschedule my upcoming volunteer session with {organization}.

{reason}

I sincerely apologize for any inconvenience this may cause. {additional_info}

I remain committed to volunteering and would like to reschedule at your earliest convenience.

Thank you for your understanding.

Sincerely,
{sender_name}
{sender_email}`,
}
