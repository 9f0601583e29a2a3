package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"deckboard/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRecorder struct {
	mu      sync.Mutex
	queries []queryRecord
	stats   int
}

type queryRecord struct {
	operation string
	table     string
	err       error
}

func (f *fakeRecorder) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, queryRecord{operation: operation, table: table, err: err})
}

func (f *fakeRecorder) UpdateDBStats(stats sql.DBStats) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats++
}

func (f *fakeRecorder) operations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops := make([]string, 0, len(f.queries))
	for _, q := range f.queries {
		ops = append(ops, q.operation+":"+q.table)
	}
	return ops
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(Config{
		Driver:  DriverSQLite,
		Path:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		Migrate: true,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "mysql"}, nil)
	assert.Error(t, err)

	_, err = Open(Config{Driver: DriverSQLite}, nil)
	assert.Error(t, err)

	_, err = Open(Config{Driver: DriverPostgres}, nil)
	assert.Error(t, err)
}

func TestOpen_SQLiteCreatesSchema(t *testing.T) {
	db := openTestDB(t)

	assert.True(t, db.Migrator().HasTable(&model.Deck{}))
	assert.True(t, db.Migrator().HasTable(&model.Board{}))
	assert.True(t, db.Migrator().HasTable(&model.Workspace{}))
	assert.True(t, db.Migrator().HasTable(&model.WorkspaceMember{}))
	assert.NoError(t, Ping(context.Background(), db))
}

func TestRegisterMetricsCallbacks(t *testing.T) {
	// Arrange
	db := openTestDB(t)
	recorder := &fakeRecorder{}
	require.NoError(t, RegisterMetricsCallbacks(db, recorder))

	ws := &model.Workspace{UserID: uuid.New(), Name: "Personal"}

	// Act
	require.NoError(t, db.Create(ws).Error)
	var found model.Workspace
	require.NoError(t, db.First(&found, "id = ?", ws.ID).Error)
	require.NoError(t, db.Model(&found).Update("name", "Team").Error)
	require.NoError(t, db.Delete(&found).Error)
	err := db.First(&found, "id = ?", ws.ID).Error

	// Assert
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Equal(t, []string{
		"insert:workspaces",
		"select:workspaces",
		"update:workspaces",
		"delete:workspaces",
		"select:workspaces",
	}, recorder.operations())
}

func TestCollectStats_StopsOnCancel(t *testing.T) {
	db := openTestDB(t)
	recorder := &fakeRecorder{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- CollectStats(ctx, db, recorder, time.Hour) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("collector did not stop")
	}
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	assert.Equal(t, 1, recorder.stats)
}
