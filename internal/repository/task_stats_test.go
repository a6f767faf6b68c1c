package repository_test

import (
	"context"
	"testing"
	"time"

	"workorder/internal/model"
	"workorder/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepository_CountBy_GroupsInSQL(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectQuery(`SELECT status AS key, COUNT\(\*\) AS count FROM "tasks" WHERE is_archived = .* AND status IN .* GROUP BY .*status.* ORDER BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).
			AddRow("in_progress", 3).
			AddRow("pending", 5))

	// Act
	got, err := repo.CountBy(context.Background(), model.TaskQuery{Statuses: model.ActiveStatuses}, model.FieldStatus)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []model.GroupCount{{Key: "in_progress", Count: 3}, {Key: "pending", Count: 5}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_CountBy_RejectsUnknownField(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	_, err := repo.CountBy(context.Background(), model.TaskQuery{}, model.TaskField("title; DROP TABLE tasks"))

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_AverageResolution_Overall(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectQuery(`SELECT '' AS key, COUNT\(\*\) AS count, COALESCE\(CAST\(AVG\(EXTRACT\(EPOCH FROM \(completed_at - started_at\)\) \* 1000\) AS DOUBLE PRECISION\), 0\) AS average_milliseconds FROM "tasks" WHERE .*started_at IS NOT NULL AND completed_at IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count", "average_milliseconds"}).
			AddRow("", 4, 5_400_000.0))

	// Act
	got, err := repo.AverageResolution(context.Background(),
		model.TaskQuery{Statuses: []model.TaskStatus{model.StatusCompleted}}, "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []model.GroupAverage{{Count: 4, AverageMilliseconds: 5_400_000}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_AverageResolution_ByCriticality(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectQuery(`SELECT criticality AS key, COUNT\(\*\) AS count, .* AS average_milliseconds FROM "tasks" WHERE .* GROUP BY .*criticality.* ORDER BY criticality`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count", "average_milliseconds"}).
			AddRow("high", 2, 7_200_000.0))

	got, err := repo.AverageResolution(context.Background(), model.TaskQuery{}, model.FieldCriticality)

	require.NoError(t, err)
	assert.Equal(t, []model.GroupAverage{{Key: "high", Count: 2, AverageMilliseconds: 7_200_000}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_TopReferenced_OrdersAndLimits(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)
	inverter, pump := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT equipment_id AS id, COUNT\(\*\) AS count FROM "tasks" WHERE .*task_type = .* AND equipment_id IS NOT NULL GROUP BY .*equipment_id.* ORDER BY count DESC, equipment_id LIMIT .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "count"}).
			AddRow(inverter.String(), 7).
			AddRow(pump.String(), 2))

	// Act
	got, err := repo.TopReferenced(context.Background(),
		model.TaskQuery{TaskType: model.TaskTypeCorrective}, model.FieldEquipment, 5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []model.RefCount{{ID: inverter, Count: 7}, {ID: pump, Count: 2}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_TopReferenced_RejectsGroupColumn(t *testing.T) {
	gormDB, _ := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	_, err := repo.TopReferenced(context.Background(), model.TaskQuery{}, model.FieldStatus, 5)

	assert.Error(t, err)
}

func TestTaskRepository_Workload_CountsOverdueInSQL(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)
	now := time.Date(2026, 6, 20, 12, 0, 0, 0, time.UTC)
	tech := uuid.New()

	mock.ExpectQuery(`SELECT assigned_to_id AS user_id, COUNT\(\*\) AS active, COALESCE\(SUM\(CASE WHEN due_date < .* THEN 1 ELSE 0 END\), 0\) AS overdue FROM "tasks" WHERE .*assigned_to_id IS NOT NULL GROUP BY .*assigned_to_id`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "active", "overdue"}).
			AddRow(tech.String(), 4, 1))

	// Act
	got, err := repo.Workload(context.Background(), model.TaskQuery{Statuses: model.ActiveStatuses}, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []model.AssigneeLoad{{UserID: tech, Active: 4, Overdue: 1}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_CountByMonth(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT to_char\(date_trunc\('month', completed_at AT TIME ZONE 'UTC'\), 'YYYY-MM'\) AS month, COUNT\(\*\) AS count FROM "tasks" WHERE .*completed_at >= .* AND completed_at IS NOT NULL GROUP BY .*month.* ORDER BY month`).
		WillReturnRows(sqlmock.NewRows([]string{"month", "count"}).
			AddRow("2026-03", 2).
			AddRow("2026-06", 1))

	// Act
	got, err := repo.CountByMonth(context.Background(),
		model.TaskQuery{CompletedSince: &from}, model.FieldCompletedAt)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []model.MonthCount{{Month: "2026-03", Count: 2}, {Month: "2026-06", Count: 1}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Count_OverdueIsStrict(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)
	now := time.Date(2026, 6, 20, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE is_archived = .* AND due_date < .*`).
		WithArgs(false, now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.Count(context.Background(), model.TaskQuery{DueBefore: &now})

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
