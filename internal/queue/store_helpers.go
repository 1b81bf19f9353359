package queue

import (
	"database/sql"
	"errors"
	"time"
)

const itemColumns = "id, source_path, original_name, batch_id, status, people_json, detections_json, resolved_names, capture_date, tagging_software, description, final_name, final_path, error_message, progress_stage, progress_message, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id              int64
		sourcePath      string
		originalName    string
		batchID         sql.NullString
		statusStr       string
		peopleJSON      sql.NullString
		detectionsJSON  sql.NullString
		resolvedNames   sql.NullString
		captureDateRaw  sql.NullString
		taggingSoftware sql.NullString
		description     sql.NullString
		finalName       sql.NullString
		finalPath       sql.NullString
		errorMessage    sql.NullString
		progressStage   sql.NullString
		progressMessage sql.NullString
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&sourcePath,
		&originalName,
		&batchID,
		&statusStr,
		&peopleJSON,
		&detectionsJSON,
		&resolvedNames,
		&captureDateRaw,
		&taggingSoftware,
		&description,
		&finalName,
		&finalPath,
		&errorMessage,
		&progressStage,
		&progressMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:              id,
		SourcePath:      sourcePath,
		OriginalName:    originalName,
		BatchID:         batchID.String,
		Status:          Status(statusStr),
		PeopleJSON:      peopleJSON.String,
		DetectionsJSON:  detectionsJSON.String,
		ResolvedNames:   resolvedNames.String,
		TaggingSoftware: taggingSoftware.String,
		Description:     description.String,
		FinalName:       finalName.String,
		FinalPath:       finalPath.String,
		ErrorMessage:    errorMessage.String,
		ProgressStage:   progressStage.String,
		ProgressMessage: progressMessage.String,
	}

	if captureDateRaw.Valid {
		if captured, err := parseTimeString(captureDateRaw.String); err == nil {
			item.CaptureDate = &captured
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
