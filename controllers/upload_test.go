package controllers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/HungNM1486/be-iot-farm-ptit/models"
	"github.com/HungNM1486/be-iot-farm-ptit/services"
)

type stubClassifier struct {
	className string
	ready     bool
	calls     int
}

func (s *stubClassifier) Ready() bool { return s.ready }

func (s *stubClassifier) Predict(img image.Image) (string, float64, error) {
	s.calls++
	return s.className, 0.9, nil
}

func setupUploadTest(t *testing.T, classifier services.Classifier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	MigrateModels(db)

	pipeline = &services.DiseasePipeline{
		DB:         db,
		Classifier: classifier,
		UploadDir:  t.TempDir(),
	}

	r := gin.New()
	r.POST("/api/camera/upload", UploadCameraImage)
	return r
}

func multipartImage(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{G: 200, A: 255})
		}
	}
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, img))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "leaf.png")
	require.NoError(t, err)
	_, err = part.Write(imgBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestUploadWithoutFileRejected(t *testing.T) {
	classifier := &stubClassifier{ready: true}
	r := setupUploadTest(t, classifier)

	req := httptest.NewRequest(http.MethodPost, "/api/camera/upload", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])

	// No model work and no storage happened.
	assert.Zero(t, classifier.calls)
	var count int64
	pipeline.DB.Model(&models.PlantImage{}).Count(&count)
	assert.Zero(t, count)
}

func TestUploadModelNotReady(t *testing.T) {
	classifier := &stubClassifier{ready: false}
	r := setupUploadTest(t, classifier)

	body, contentType := multipartImage(t)
	req := httptest.NewRequest(http.MethodPost, "/api/camera/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Zero(t, classifier.calls)
}

func TestUploadReturnsPrediction(t *testing.T) {
	classifier := &stubClassifier{ready: true, className: "Leaf Mold"}
	r := setupUploadTest(t, classifier)

	body, contentType := multipartImage(t)
	req := httptest.NewRequest(http.MethodPost, "/api/camera/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success      bool    `json:"success"`
		ImageURL     string  `json:"imageUrl"`
		Disease      string  `json:"disease"`
		Probability  float64 `json:"probability"`
		PredictionID uint    `json:"predictionId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Leaf Mold", resp.Disease)
	assert.Equal(t, 0.9, resp.Probability)
	assert.NotZero(t, resp.PredictionID)
	assert.Contains(t, resp.ImageURL, "/uploads/camera/")

	var notifications []models.Notification
	require.NoError(t, pipeline.DB.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationDiseaseDetected, notifications[0].Type)
}
