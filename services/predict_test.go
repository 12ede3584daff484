package services

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HungNM1486/be-iot-farm-ptit/models"
)

// fakeClassifier returns a fixed result without any model server.
type fakeClassifier struct {
	className  string
	confidence float64
	ready      bool
	calls      int
}

func (f *fakeClassifier) Ready() bool { return f.ready }

func (f *fakeClassifier) Predict(img image.Image) (string, float64, error) {
	f.calls++
	return f.className, f.confidence, nil
}

func testImageBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 180, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestPipeline(t *testing.T, classifier Classifier) (*DiseasePipeline, *fakeHub) {
	t.Helper()
	hub := &fakeHub{}
	return &DiseasePipeline{
		DB:         newTestDB(t),
		Hub:        hub,
		Classifier: classifier,
		UploadDir:  t.TempDir(),
	}, hub
}

func TestHandleUploadHealthyCreatesNoNotification(t *testing.T) {
	classifier := &fakeClassifier{className: "Healthy", confidence: 0.95, ready: true}
	pipeline, hub := newTestPipeline(t, classifier)

	result, err := pipeline.HandleUpload(testImageBytes(t), "leaf.png")
	require.NoError(t, err)
	assert.Equal(t, "Healthy", result.ClassName)
	assert.NotZero(t, result.ImageID)
	assert.NotZero(t, result.PredictionID)

	var count int64
	pipeline.DB.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count)

	// The image event is broadcast regardless of the diagnosis.
	assert.Equal(t, 1, hub.count("new_image"))
	assert.Equal(t, 0, hub.count("notification"))
}

func TestHandleUploadDiseaseCreatesOneNotification(t *testing.T) {
	classifier := &fakeClassifier{className: "Early Blight", confidence: 0.871, ready: true}
	pipeline, hub := newTestPipeline(t, classifier)

	result, err := pipeline.HandleUpload(testImageBytes(t), "leaf.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Early Blight", result.ClassName)

	var notifications []models.Notification
	require.NoError(t, pipeline.DB.Find(&notifications).Error)
	require.Len(t, notifications, 1)

	n := notifications[0]
	assert.Equal(t, models.NotificationDiseaseDetected, n.Type)
	assert.True(t, strings.Contains(n.Message, "Early Blight"))
	assert.True(t, strings.Contains(n.Message, "87.1%"))
	require.NotNil(t, n.SourceID)
	assert.Equal(t, result.PredictionID, *n.SourceID)

	assert.Equal(t, 1, hub.count("new_image"))
	assert.Equal(t, 1, hub.count("notification"))
}

func TestHandleUploadSuffixedHealthyLabel(t *testing.T) {
	classifier := &fakeClassifier{className: "Tomato___healthy", confidence: 0.9, ready: true}
	pipeline, _ := newTestPipeline(t, classifier)

	_, err := pipeline.HandleUpload(testImageBytes(t), "leaf.png")
	require.NoError(t, err)

	var count int64
	pipeline.DB.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count)
}

func TestHandleUploadModelNotReady(t *testing.T) {
	classifier := &fakeClassifier{ready: false}
	pipeline, hub := newTestPipeline(t, classifier)

	_, err := pipeline.HandleUpload(testImageBytes(t), "leaf.png")
	assert.ErrorIs(t, err, ErrModelNotReady)
	assert.Zero(t, classifier.calls)

	var count int64
	pipeline.DB.Model(&models.PlantImage{}).Count(&count)
	assert.Zero(t, count)
	assert.Empty(t, hub.events)
}

func TestHandleUploadEmptyPayloadRejected(t *testing.T) {
	classifier := &fakeClassifier{ready: true}
	pipeline, _ := newTestPipeline(t, classifier)

	_, err := pipeline.HandleUpload(nil, "leaf.png")
	require.Error(t, err)
	assert.Zero(t, classifier.calls)
}

func TestModelClientPredictTakesArgMax(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/model/info":
			json.NewEncoder(w).Encode(modelInfo{
				InputSize: 4,
				Labels:    []string{"Healthy", "Early Blight", "Leaf Mold"},
			})
		case "/predict":
			var req predictRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("bad predict request: %v", err)
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			// 4x4 RGB tensor
			assert.Equal(t, []int{1, 4, 4, 3}, req.Shape)
			assert.Len(t, req.Tensor, 4*4*3)
			json.NewEncoder(w).Encode(predictResponse{Probabilities: []float64{0.1, 0.7, 0.2}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewModelClient(server.URL)
	assert.False(t, client.Ready())
	require.NoError(t, client.LoadModel())
	assert.True(t, client.Ready())

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	className, confidence, err := client.Predict(img)
	require.NoError(t, err)
	assert.Equal(t, "Early Blight", className)
	assert.Equal(t, 0.7, confidence)
}

func TestModelClientReadyConcurrentWithLoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/model/info":
			json.NewEncoder(w).Encode(modelInfo{InputSize: 2, Labels: []string{"Healthy", "Early Blight"}})
		case "/predict":
			json.NewEncoder(w).Encode(predictResponse{Probabilities: []float64{0.2, 0.8}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewModelClient(server.URL)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	// An upload handler polls Ready while the model loads in the
	// background; once it observes true, the metadata must be fully
	// published and Predict must work. Run with -race.
	done := make(chan error, 1)
	go func() {
		for !client.Ready() {
			time.Sleep(time.Millisecond)
		}
		_, _, err := client.Predict(img)
		done <- err
	}()

	require.NoError(t, client.LoadModel())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Ready never became true after LoadModel")
	}
}

func TestImageToTensorNormalized(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 255, A: 255})
		}
	}

	tensor := imageToTensor(img, 2)
	require.Len(t, tensor, 2*2*3)
	for i := 0; i < len(tensor); i += 3 {
		assert.InDelta(t, 1.0, tensor[i], 0.01)   // R
		assert.InDelta(t, 0.0, tensor[i+1], 0.01) // G
		assert.InDelta(t, 1.0, tensor[i+2], 0.01) // B
	}
}
