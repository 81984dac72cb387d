package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fieldforce-hr/location-backend-go/internal/domain/assistant"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/employee"
	"github.com/fieldforce-hr/location-backend-go/internal/domain/tracking"
)

type AssistantServiceImpl struct {
	trackingService tracking.Service
	employees       employee.Repository
}

// Query implements assistant.Service. Intents are tried in a fixed order;
// the first keyword hit wins.
func (s *AssistantServiceImpl) Query(ctx context.Context, req assistant.QueryRequest) (assistant.QueryResponse, error) {
	if err := req.Validate(); err != nil {
		return assistant.QueryResponse{}, err
	}

	question := strings.ToLower(strings.TrimSpace(req.Question))

	switch {
	case containsAny(question, "where is", "where's", "locate", "location of"):
		return s.answerWhereIs(ctx, req.Question)
	case containsAny(question, "who is online", "who's online", "online now", "currently online", "who is active"):
		return s.answerWhoOnline(ctx)
	case containsAny(question, "what time", "when did"):
		return s.answerCheckTime(ctx, req.Question)
	case containsAny(question, "checked in today", "who checked in", "today's attendance", "attendance today"):
		return s.answerAttendance(ctx)
	case containsAny(question, "who is in", "who's in", "who is at", "who's at", "inside"):
		return s.answerWhoInside(ctx, question)
	case containsAny(question, "summary", "overview", "how many"):
		return s.answerSummary(ctx)
	default:
		return assistant.QueryResponse{
			Intent: assistant.IntentUnknown,
			Answer: "I can answer questions like \"where is Siti\", \"who is online\", \"what time did Budi check in\", \"who checked in today\", or \"who is in the HQ\".",
		}, nil
	}
}

func (s *AssistantServiceImpl) answerWhereIs(ctx context.Context, question string) (assistant.QueryResponse, error) {
	name := extractName(question, "where is", "where's", "locate", "location of")
	if name == "" {
		return assistant.QueryResponse{
			Intent: assistant.IntentWhereIs,
			Answer: "Whose location do you want? Try \"where is <name>\".",
		}, nil
	}

	emp, err := s.employees.SearchByName(ctx, name)
	if err != nil {
		return assistant.QueryResponse{}, err
	}
	if emp == nil {
		return assistant.QueryResponse{
			Intent: assistant.IntentWhereIs,
			Answer: fmt.Sprintf("I could not find an employee named %q.", name),
		}, nil
	}

	status, err := s.trackingService.GetEmployeeStatus(ctx, emp.ID)
	if err != nil {
		if errors.Is(err, tracking.ErrStatusNotFound) {
			return assistant.QueryResponse{
				Intent: assistant.IntentWhereIs,
				Answer: fmt.Sprintf("%s has not reported any location yet.", emp.FullName()),
			}, nil
		}
		return assistant.QueryResponse{}, err
	}

	answer := fmt.Sprintf("%s is %s", emp.FullName(), describeStatus(status.Status))
	if status.Geofence != nil {
		answer += fmt.Sprintf(" at %s", *status.Geofence)
	} else if status.CurrentLatitude != nil && status.CurrentLongitude != nil {
		answer += fmt.Sprintf(" near %.4f, %.4f", *status.CurrentLatitude, *status.CurrentLongitude)
	}
	if !status.IsOnline {
		answer += " (last seen a while ago)"
	}
	answer += "."

	return assistant.QueryResponse{
		Intent: assistant.IntentWhereIs,
		Answer: answer,
		Data:   status,
	}, nil
}

func (s *AssistantServiceImpl) answerWhoOnline(ctx context.Context) (assistant.QueryResponse, error) {
	online, err := s.trackingService.ListOnline(ctx)
	if err != nil {
		return assistant.QueryResponse{}, err
	}

	if len(online) == 0 {
		return assistant.QueryResponse{
			Intent: assistant.IntentWhoOnline,
			Answer: "Nobody is online right now.",
		}, nil
	}

	names := make([]string, 0, len(online))
	for _, status := range online {
		names = append(names, status.EmployeeName)
	}

	return assistant.QueryResponse{
		Intent: assistant.IntentWhoOnline,
		Answer: fmt.Sprintf("%d online: %s.", len(online), strings.Join(names, ", ")),
		Data:   online,
	}, nil
}

func (s *AssistantServiceImpl) answerCheckTime(ctx context.Context, question string) (assistant.QueryResponse, error) {
	name := extractName(question, "what time did", "when did")
	name = strings.TrimSuffix(name, " check in")
	name = strings.TrimSuffix(name, " check out")
	name = strings.TrimSuffix(name, " arrive")
	name = strings.TrimSuffix(name, " leave")
	name = strings.TrimSpace(name)
	if name == "" {
		return assistant.QueryResponse{
			Intent: assistant.IntentCheckTime,
			Answer: "Whose check-in time do you want? Try \"what time did <name> check in\".",
		}, nil
	}

	emp, err := s.employees.SearchByName(ctx, name)
	if err != nil {
		return assistant.QueryResponse{}, err
	}
	if emp == nil {
		return assistant.QueryResponse{
			Intent: assistant.IntentCheckTime,
			Answer: fmt.Sprintf("I could not find an employee named %q.", name),
		}, nil
	}

	status, err := s.trackingService.GetEmployeeStatus(ctx, emp.ID)
	if err != nil {
		if errors.Is(err, tracking.ErrStatusNotFound) {
			return assistant.QueryResponse{
				Intent: assistant.IntentCheckTime,
				Answer: fmt.Sprintf("%s has no attendance record yet.", emp.FullName()),
			}, nil
		}
		return assistant.QueryResponse{}, err
	}

	wantsOut := strings.Contains(strings.ToLower(question), "check out") ||
		strings.Contains(strings.ToLower(question), "leave")

	if wantsOut {
		if status.LastCheckOut == nil {
			return assistant.QueryResponse{
				Intent: assistant.IntentCheckTime,
				Answer: fmt.Sprintf("%s has not checked out.", emp.FullName()),
			}, nil
		}
		return assistant.QueryResponse{
			Intent: assistant.IntentCheckTime,
			Answer: fmt.Sprintf("%s checked out at %s.", emp.FullName(), *status.LastCheckOut),
			Data:   status,
		}, nil
	}

	if status.LastCheckIn == nil {
		return assistant.QueryResponse{
			Intent: assistant.IntentCheckTime,
			Answer: fmt.Sprintf("%s has not checked in.", emp.FullName()),
		}, nil
	}

	return assistant.QueryResponse{
		Intent: assistant.IntentCheckTime,
		Answer: fmt.Sprintf("%s checked in at %s.", emp.FullName(), *status.LastCheckIn),
		Data:   status,
	}, nil
}

func (s *AssistantServiceImpl) answerAttendance(ctx context.Context) (assistant.QueryResponse, error) {
	events, err := s.trackingService.TodayCheckIns(ctx)
	if err != nil {
		return assistant.QueryResponse{}, err
	}

	if len(events) == 0 {
		return assistant.QueryResponse{
			Intent: assistant.IntentAttendance,
			Answer: "Nobody has checked in today.",
		}, nil
	}

	names := make([]string, 0, len(events))
	for _, event := range events {
		names = append(names, event.EmployeeName)
	}

	return assistant.QueryResponse{
		Intent: assistant.IntentAttendance,
		Answer: fmt.Sprintf("%d checked in today: %s.", len(events), strings.Join(names, ", ")),
		Data:   events,
	}, nil
}

func (s *AssistantServiceImpl) answerWhoInside(ctx context.Context, question string) (assistant.QueryResponse, error) {
	grouped, err := s.trackingService.StatusesByGeofence(ctx)
	if err != nil {
		return assistant.QueryResponse{}, err
	}

	// Try to match a named fence in the question.
	for fenceName, statuses := range grouped {
		if fenceName == "" {
			continue
		}
		if strings.Contains(question, strings.ToLower(fenceName)) {
			names := make([]string, 0, len(statuses))
			for _, status := range statuses {
				names = append(names, status.EmployeeName)
			}
			return assistant.QueryResponse{
				Intent: assistant.IntentWhoInside,
				Answer: fmt.Sprintf("%d at %s: %s.", len(names), fenceName, strings.Join(names, ", ")),
				Data:   statuses,
			}, nil
		}
	}

	var parts []string
	for fenceName, statuses := range grouped {
		if fenceName == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%d)", fenceName, len(statuses)))
	}
	if len(parts) == 0 {
		return assistant.QueryResponse{
			Intent: assistant.IntentWhoInside,
			Answer: "Nobody is inside a geofence right now.",
		}, nil
	}

	return assistant.QueryResponse{
		Intent: assistant.IntentWhoInside,
		Answer: "Occupied sites: " + strings.Join(parts, ", ") + ".",
		Data:   grouped,
	}, nil
}

func (s *AssistantServiceImpl) answerSummary(ctx context.Context) (assistant.QueryResponse, error) {
	summary, err := s.trackingService.Summary(ctx)
	if err != nil {
		return assistant.QueryResponse{}, err
	}

	return assistant.QueryResponse{
		Intent: assistant.IntentSummary,
		Answer: fmt.Sprintf(
			"%d employees total, %d checked in today, %d checked out, %d currently online.",
			summary.TotalEmployees, summary.CheckedInToday, summary.CheckedOutToday, summary.CurrentlyOnline,
		),
		Data: summary,
	}, nil
}

func containsAny(s string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

// extractName strips the matched keyword phrase and question punctuation,
// leaving what should be the employee name.
func extractName(question string, phrases ...string) string {
	lower := strings.ToLower(question)
	for _, phrase := range phrases {
		idx := strings.Index(lower, phrase)
		if idx < 0 {
			continue
		}
		rest := question[idx+len(phrase):]
		rest = strings.Trim(rest, " ?!.")
		return rest
	}
	return ""
}

func describeStatus(status tracking.Status) string {
	switch status {
	case tracking.StatusCheckedIn:
		return "checked in"
	case tracking.StatusCheckedOut:
		return "checked out"
	case tracking.StatusOnBreak:
		return "on break"
	default:
		return "offline"
	}
}

func NewAssistantService(trackingService tracking.Service, employees employee.Repository) assistant.Service {
	return &AssistantServiceImpl{
		trackingService: trackingService,
		employees:       employees,
	}
}
