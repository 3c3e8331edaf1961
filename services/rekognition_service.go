package services

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/7void/nutricam/models"
)

// RekognitionService is the alternative classification backend, selected via
// CLASSIFIER_PROVIDER=rekognition. DetectLabels confidences are 0-100;
// they are normalized to [0,1] to match the Classifier contract.
type RekognitionService struct {
	client *rekognition.Client
}

func NewRekognitionService() (*RekognitionService, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &RekognitionService{client: rekognition.NewFromConfig(cfg)}, nil
}

func (r *RekognitionService) Classify(base64Img string) ([]models.Concept, error) {
	raw := base64Img
	if i := strings.Index(raw, ","); i >= 0 && strings.HasPrefix(raw, "data:") {
		raw = raw[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, err
	}

	out, err := r.client.DetectLabels(context.TODO(), &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(5),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Labels) == 0 {
		return nil, errors.New("no labels detected")
	}

	concepts := make([]models.Concept, 0, len(out.Labels))
	for _, l := range out.Labels {
		c := models.Concept{Name: aws.ToString(l.Name)}
		if l.Confidence != nil {
			c.Confidence = float64(*l.Confidence) / 100
		}
		concepts = append(concepts, c)
	}
	return concepts, nil
}
