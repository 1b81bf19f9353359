package queue

import (
	"encoding/json"
	"strings"
	"time"

	"photonym/internal/services/detector"
	"photonym/internal/tags"
)

// Status represents the lifecycle of a queued photo. Transitions are
// strictly forward: a photo never returns to an earlier status except
// through an explicit retry of a failed item.
type Status string

const (
	StatusPending         Status = "pending"
	StatusExtractingTags  Status = "extracting_tags"
	StatusDetectingPeople Status = "detecting_people"
	StatusDescribingScene Status = "describing_scene"
	StatusAssemblingName  Status = "assembling_name"
	StatusCompleted       Status = "completed"
	StatusFailed          Status = "failed"
)

// DaemonStopReason is the error message set when items are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusExtractingTags,
	StatusDetectingPeople,
	StatusDescribingScene,
	StatusAssemblingName,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusExtractingTags:  {},
	StatusDetectingPeople: {},
	StatusDescribingScene: {},
	StatusAssemblingName:  {},
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessingStatus reports whether a status reflects an in-flight stage.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsTerminal reports whether a status ends the photo's lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Completed  int
}

// Item represents a queued photo persisted in SQLite.
type Item struct {
	ID              int64
	SourcePath      string
	OriginalName    string
	BatchID         string
	Status          Status
	PeopleJSON      string
	DetectionsJSON  string
	ResolvedNames   string
	CaptureDate     *time.Time
	TaggingSoftware string
	Description     string
	FinalName       string
	FinalPath       string
	ErrorMessage    string
	ProgressStage   string
	ProgressMessage string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsProcessing returns true when the item is in an in-flight stage.
func (i Item) IsProcessing() bool {
	_, ok := processingStatuses[i.Status]
	return ok
}

// SetProgress updates the stage/message pair published to observers.
func (i *Item) SetProgress(stage, message string) {
	i.ProgressStage = stage
	i.ProgressMessage = message
}

// SetFailed marks the item as failed with the given error message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
	i.ProgressStage = "Failed"
	i.ProgressMessage = message
}

// SetExtraction records the tag extraction result on the item.
func (i *Item) SetExtraction(result tags.ExtractionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	i.PeopleJSON = string(data)
	i.TaggingSoftware = result.TaggingSoftware
	return nil
}

// Extraction decodes the stored tag extraction result, if any.
func (i Item) Extraction() (tags.ExtractionResult, error) {
	var result tags.ExtractionResult
	if strings.TrimSpace(i.PeopleJSON) == "" {
		return result, nil
	}
	err := json.Unmarshal([]byte(i.PeopleJSON), &result)
	return result, err
}

// SetDetections records the raw detector response on the item.
func (i *Item) SetDetections(people []detector.Person) error {
	if len(people) == 0 {
		i.DetectionsJSON = ""
		return nil
	}
	data, err := json.Marshal(people)
	if err != nil {
		return err
	}
	i.DetectionsJSON = string(data)
	return nil
}

// Detections decodes the stored detector response, if any.
func (i Item) Detections() ([]detector.Person, error) {
	if strings.TrimSpace(i.DetectionsJSON) == "" {
		return nil, nil
	}
	var people []detector.Person
	err := json.Unmarshal([]byte(i.DetectionsJSON), &people)
	return people, err
}

// SetResolvedNames stores the final normalized name list.
func (i *Item) SetResolvedNames(names []string) error {
	if len(names) == 0 {
		i.ResolvedNames = ""
		return nil
	}
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	i.ResolvedNames = string(data)
	return nil
}

// ResolvedNameList decodes the stored name list, if any.
func (i Item) ResolvedNameList() ([]string, error) {
	if strings.TrimSpace(i.ResolvedNames) == "" {
		return nil, nil
	}
	var names []string
	err := json.Unmarshal([]byte(i.ResolvedNames), &names)
	return names, err
}
