package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ertis-service/backend/internal/models"
	"github.com/ertis-service/backend/internal/storage"
)

func TestCanViewRequest(t *testing.T) {
	assignee := int64(12)
	req := models.Request{CreatorID: 7, AssigneeID: &assignee}

	if !canViewRequest(models.RoleAdmin, 0, nil, req) {
		t.Fatal("admin should see any request")
	}
	if !canViewRequest(models.RoleCitizen, 7, nil, req) {
		t.Fatal("creator should see own request")
	}
	if canViewRequest(models.RoleCitizen, 8, nil, req) {
		t.Fatal("other citizens should not see the request")
	}
	if !canViewRequest(models.RoleEmployee, 0, &assignee, req) {
		t.Fatal("assignee should see the request")
	}
	other := int64(99)
	if canViewRequest(models.RoleEmployee, 0, &other, req) {
		t.Fatal("unrelated employee should not see the request")
	}
	unassigned := models.Request{CreatorID: 7}
	if canViewRequest(models.RoleEmployee, 0, &assignee, unassigned) {
		t.Fatal("employee should not see an unassigned request")
	}
}

func TestAssignmentStatusNeverMovesBackward(t *testing.T) {
	if got := assignmentStatus(models.StatusPending); got != models.StatusAssigned {
		t.Fatalf("pending should become assigned, got %s", got)
	}
	if got := assignmentStatus(models.StatusAssigned); got != models.StatusAssigned {
		t.Fatalf("assigned should stay assigned, got %s", got)
	}
	if got := assignmentStatus(models.StatusInProgress); got != models.StatusInProgress {
		t.Fatalf("reassignment must not reset in_progress, got %s", got)
	}
}

func TestReadUploadEnforcesLimit(t *testing.T) {
	fh := makeMultipartFile(t, "photo", "big.jpg", string(make([]byte, 100)))
	if _, _, err := readUpload(fh, 50); !errors.Is(err, storage.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}

	fh = makeMultipartFile(t, "photo", "ok.jpg", "small payload")
	content, name, err := readUpload(fh, 50)
	if err != nil {
		t.Fatalf("read upload: %v", err)
	}
	if string(content) != "small payload" || name != "ok.jpg" {
		t.Fatalf("unexpected upload contents: %q %q", content, name)
	}
}

func TestFormFloat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString("latitude=51.1605&longitude=oops"))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	v, ok, err := formFloat(c, "latitude")
	if err != nil || !ok || v != 51.1605 {
		t.Fatalf("unexpected latitude parse: %v %v %v", v, ok, err)
	}
	if _, _, err := formFloat(c, "longitude"); err == nil {
		t.Fatal("expected parse error for longitude")
	}
	if _, ok, err := formFloat(c, "missing"); ok || err != nil {
		t.Fatalf("missing field should be absent without error: %v %v", ok, err)
	}
}

func makeMultipartFile(t *testing.T, fieldName, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(int64(buf.Len()))
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	files := form.File[fieldName]
	if len(files) == 0 {
		t.Fatalf("no file headers found")
	}
	return files[0]
}
