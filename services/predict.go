package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"gorm.io/gorm"

	"github.com/HungNM1486/be-iot-farm-ptit/models"
)

// ErrModelNotReady is returned when an upload arrives before the inference
// model has been loaded.
var ErrModelNotReady = errors.New("prediction model is not ready")

// Classifier is the opaque inference model: it takes a decoded image and
// returns the predicted class and its confidence.
type Classifier interface {
	Ready() bool
	Predict(img image.Image) (className string, confidence float64, err error)
}

// ModelClient talks to the Python model server. The image is decoded,
// resized to the model's input dimensions and normalized to [0,1] RGB floats
// here; the server returns the class-probability vector and the client takes
// the arg-max.
//
// LoadModel runs on a background goroutine while HTTP handlers call Ready
// and Predict, so the model metadata is published under mu.
type ModelClient struct {
	baseURL string
	http    *http.Client

	mu        sync.RWMutex
	inputSize int
	labels    []string
	ready     bool
}

func NewModelClient(baseURL string) *ModelClient {
	return &ModelClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type modelInfo struct {
	InputSize int      `json:"input_size"`
	Labels    []string `json:"labels"`
}

// LoadModel fetches the model metadata (input dimensions and class labels)
// from the model server. Until it succeeds the client reports not ready.
func (m *ModelClient) LoadModel() error {
	resp, err := m.http.Get(m.baseURL + "/model/info")
	if err != nil {
		return fmt.Errorf("failed to reach model server: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read model info: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server returned error: %s", string(body))
	}

	var info modelInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return fmt.Errorf("failed to parse model info: %v", err)
	}
	if info.InputSize <= 0 || len(info.Labels) == 0 {
		return fmt.Errorf("model server returned invalid metadata")
	}

	m.mu.Lock()
	m.inputSize = info.InputSize
	m.labels = info.Labels
	m.ready = true
	m.mu.Unlock()

	log.Printf("prediction model loaded: %d classes, input %dx%d", len(info.Labels), info.InputSize, info.InputSize)
	return nil
}

func (m *ModelClient) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

type predictRequest struct {
	Tensor []float32 `json:"tensor"`
	Shape  []int     `json:"shape"`
}

type predictResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

// Predict runs one image through the model server and returns the arg-max
// class with its probability.
func (m *ModelClient) Predict(img image.Image) (string, float64, error) {
	m.mu.RLock()
	ready, inputSize, labels := m.ready, m.inputSize, m.labels
	m.mu.RUnlock()
	if !ready {
		return "", 0, ErrModelNotReady
	}

	req := predictRequest{
		Tensor: imageToTensor(img, inputSize),
		Shape:  []int{1, inputSize, inputSize, 3},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", 0, err
	}

	resp, err := m.http.Post(m.baseURL+"/predict", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("prediction request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("model server returned error: %s", string(respBody))
	}

	var result predictResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", 0, fmt.Errorf("failed to parse prediction: %v", err)
	}
	if len(result.Probabilities) != len(labels) {
		return "", 0, fmt.Errorf("model returned %d probabilities for %d labels", len(result.Probabilities), len(labels))
	}

	best := 0
	for i, p := range result.Probabilities {
		if p > result.Probabilities[best] {
			best = i
		}
	}
	return labels[best], result.Probabilities[best], nil
}

// imageToTensor resizes to size x size and flattens to normalized RGB floats
// in HWC order.
func imageToTensor(img image.Image, size int) []float32 {
	resized := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Over, nil)

	tensor := make([]float32, 0, size*size*3)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			tensor = append(tensor,
				float32(r>>8)/255,
				float32(g>>8)/255,
				float32(b>>8)/255,
			)
		}
	}
	return tensor
}

// PredictionResult is what the upload endpoint returns to the caller.
type PredictionResult struct {
	ImageURL     string  `json:"imageUrl"`
	ImageID      uint    `json:"imageId"`
	ClassName    string  `json:"disease"`
	Confidence   float64 `json:"probability"`
	PredictionID uint    `json:"predictionId"`
}

// DiseasePipeline runs an uploaded camera image through storage, inference
// and alerting.
type DiseasePipeline struct {
	DB         *gorm.DB
	Hub        Broadcaster
	Classifier Classifier
	UploadDir  string
}

// HandleUpload stores the image, classifies it and raises a disease alert
// for any non-healthy class. Once inference has succeeded the result is
// always returned to the caller: persistence or notification failures after
// that point are logged and only those side effects are lost.
func (p *DiseasePipeline) HandleUpload(data []byte, originalName string) (*PredictionResult, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image payload")
	}
	if p.Classifier == nil || !p.Classifier.Ready() {
		return nil, ErrModelNotReady
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid image: %v", err)
	}

	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".jpg"
	}
	filename := uuid.New().String() + ext
	if err := os.MkdirAll(p.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(p.UploadDir, filename), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store image: %v", err)
	}

	imageRecord := models.PlantImage{
		ImgURL:    "/uploads/camera/" + filename,
		CreatedAt: time.Now(),
	}
	if err := p.DB.Create(&imageRecord).Error; err != nil {
		return nil, fmt.Errorf("failed to record image: %v", err)
	}

	className, confidence, err := p.Classifier.Predict(img)
	if err != nil {
		return nil, err
	}

	result := &PredictionResult{
		ImageURL:   imageRecord.ImgURL,
		ImageID:    imageRecord.ID,
		ClassName:  className,
		Confidence: confidence,
	}

	prediction := models.ImagePrediction{
		ImageID:    imageRecord.ID,
		ClassName:  className,
		Confidence: confidence,
		CreatedAt:  time.Now(),
	}
	if err := p.DB.Create(&prediction).Error; err != nil {
		// Classification succeeded; the caller still gets the result.
		log.Printf("failed to store prediction for image %d: %v", imageRecord.ID, err)
	} else {
		result.PredictionID = prediction.ID
	}

	if p.Hub != nil {
		p.Hub.Emit("new_image", result)
	}

	if !isHealthy(className) {
		n := &models.Notification{
			Type:       models.NotificationDiseaseDetected,
			Message:    fmt.Sprintf("Disease detected: %s (%.1f%% confidence)", className, confidence*100),
			SourceType: "prediction",
		}
		if prediction.ID != 0 {
			n.SourceID = &prediction.ID
		}
		if err := CreateNotification(p.DB, p.Hub, n); err != nil {
			log.Printf("failed to create disease notification for image %d: %v", imageRecord.ID, err)
		}
	}

	return result, nil
}

// isHealthy reports whether a predicted class represents a healthy plant.
// Labels like "Tomato___healthy" also count.
func isHealthy(className string) bool {
	return strings.Contains(strings.ToLower(className), "healthy")
}

// GetPredictionByID looks up a stored prediction.
func GetPredictionByID(db *gorm.DB, id uint) (*models.ImagePrediction, error) {
	var prediction models.ImagePrediction
	if err := db.First(&prediction, id).Error; err != nil {
		return nil, err
	}
	return &prediction, nil
}
