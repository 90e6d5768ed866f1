package announcement_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"records-service/internal/announcement"
	"records-service/internal/integrity"
	"records-service/internal/metrics"
	"records-service/internal/testdb"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func seedClassroom(t *testing.T, db *bun.DB) (teacherID, classID int) {
	t.Helper()
	ctx := context.Background()

	err := db.QueryRowContext(ctx,
		"INSERT INTO users (email, full_name, role) VALUES ('teacher@school.test', 'Teach Er', 'teacher') RETURNING id").Scan(&teacherID)
	require.NoError(t, err)
	err = db.QueryRowContext(ctx,
		"INSERT INTO classes (code, title) VALUES ('HIST-210', 'Modern History') RETURNING id").Scan(&classID)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO teacher_classes (teacher_id, class_id) VALUES (?, ?)", teacherID, classID)
	require.NoError(t, err)
	return teacherID, classID
}

func TestAnnouncementHandler_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	repo := announcement.NewRepository(pgContainer.DB, metrics.NewMock())
	engine := integrity.NewEngine(integrity.NewStoreView(pgContainer.DB))
	svc := announcement.NewService(repo, engine, nil, metrics.NewMock(), logger)
	handler := announcement.NewHandler(svc, logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	tables := []string{"announcements", "teacher_classes", "classes", "users"}

	post := func(t *testing.T, payload map[string]interface{}) *httptest.ResponseRecorder {
		t.Helper()
		body, err := json.Marshal(payload)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/announcements", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Post_Success", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, tables...)
		teacherID, classID := seedClassroom(t, pgContainer.DB)

		w := post(t, map[string]interface{}{
			"classId":  classID,
			"authorId": teacherID,
			"title":    "Exam moved",
			"body":     "The midterm is now on Friday.",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var created announcement.Announcement
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.NotZero(t, created.ID)
		assert.False(t, created.PostedAt.IsZero())
	})

	t.Run("Post_UnassignedAuthor", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, tables...)
		_, classID := seedClassroom(t, pgContainer.DB)

		var strangerID int
		err := pgContainer.DB.QueryRowContext(context.Background(),
			"INSERT INTO users (email, full_name, role) VALUES ('stranger@school.test', 'Stran Ger', 'teacher') RETURNING id").Scan(&strangerID)
		require.NoError(t, err)

		w := post(t, map[string]interface{}{
			"classId":  classID,
			"authorId": strangerID,
			"title":    "Not mine",
			"body":     "Should be refused.",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Post_ClassMissing", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, tables...)
		teacherID, _ := seedClassroom(t, pgContainer.DB)

		w := post(t, map[string]interface{}{
			"classId":  9999,
			"authorId": teacherID,
			"title":    "Nowhere",
			"body":     "No such class.",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Post_MissingTitle", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, tables...)
		teacherID, classID := seedClassroom(t, pgContainer.DB)

		w := post(t, map[string]interface{}{
			"classId":  classID,
			"authorId": teacherID,
			"body":     "No title here.",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("List_NewestFirst", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, tables...)
		teacherID, classID := seedClassroom(t, pgContainer.DB)

		for _, title := range []string{"first", "second", "third"} {
			w := post(t, map[string]interface{}{
				"classId":  classID,
				"authorId": teacherID,
				"title":    title,
				"body":     "body",
			})
			require.Equal(t, http.StatusCreated, w.Code)
		}

		req := httptest.NewRequest(http.MethodGet, "/announcements", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var listed []announcement.Announcement
		require.NoError(t, json.NewDecoder(w.Body).Decode(&listed))
		require.Len(t, listed, 3)
		assert.Equal(t, "third", listed[0].Title)
		assert.Equal(t, "first", listed[2].Title)
	})

	t.Run("Delete_ThenAuthorRemovable", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, tables...)
		teacherID, classID := seedClassroom(t, pgContainer.DB)

		w := post(t, map[string]interface{}{
			"classId":  classID,
			"authorId": teacherID,
			"title":    "Temporary",
			"body":     "Will be deleted.",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var created announcement.Announcement
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

		req := httptest.NewRequest(http.MethodDelete, "/announcements/"+strconv.Itoa(created.ID), nil)
		del := httptest.NewRecorder()
		router.ServeHTTP(del, req)
		assert.Equal(t, http.StatusOK, del.Code)

		cascade := integrity.NewCascade(pgContainer.DB, metrics.NewMock())
		_, err := cascade.DeleteUser(context.Background(), teacherID)
		assert.NoError(t, err, "author is deletable once their announcements are gone")
	})
}
