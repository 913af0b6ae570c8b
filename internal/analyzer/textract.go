package analyzer

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/getmarco/medtextanalyze/internal/models"
)

// TextractDetector implements TextDetector over an AWS Textract client.
type TextractDetector struct {
	client *textract.Client
}

// NewTextractDetector wraps an already-constructed Textract client.
func NewTextractDetector(client *textract.Client) *TextractDetector {
	return &TextractDetector{client: client}
}

func (d *TextractDetector) DetectDocumentText(ctx context.Context, input DetectInput) ([]models.Block, error) {
	doc := &types.Document{}
	if input.Document != nil {
		doc.S3Object = &types.S3Object{
			Bucket: aws.String(input.Document.Bucket),
			Name:   aws.String(input.Document.Key),
		}
	} else {
		doc.Bytes = input.Bytes
	}

	out, err := d.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: doc,
	})
	if err != nil {
		return nil, &RemoteError{Service: "textract", Op: "DetectDocumentText", Err: err}
	}
	return mapBlocks(out.Blocks), nil
}

func (d *TextractDetector) StartTextDetection(ctx context.Context, doc models.DocumentReference, tag string) (string, error) {
	input := &textract.StartDocumentTextDetectionInput{
		DocumentLocation: &types.DocumentLocation{
			S3Object: &types.S3Object{
				Bucket: aws.String(doc.Bucket),
				Name:   aws.String(doc.Key),
			},
		},
	}
	if tag != "" {
		input.JobTag = aws.String(tag)
	}

	out, err := d.client.StartDocumentTextDetection(ctx, input)
	if err != nil {
		return "", &RemoteError{Service: "textract", Op: "StartDocumentTextDetection", Err: err}
	}
	return aws.ToString(out.JobId), nil
}

func (d *TextractDetector) TextDetectionPage(ctx context.Context, jobID string, maxResults int32, nextToken string) (*models.DetectionPage, error) {
	input := &textract.GetDocumentTextDetectionInput{
		JobId:      aws.String(jobID),
		MaxResults: aws.Int32(maxResults),
	}
	if nextToken != "" {
		input.NextToken = aws.String(nextToken)
	}

	out, err := d.client.GetDocumentTextDetection(ctx, input)
	if err != nil {
		return nil, &RemoteError{Service: "textract", Op: "GetDocumentTextDetection", Err: err}
	}
	return &models.DetectionPage{
		Status:    models.JobStatus(out.JobStatus),
		Blocks:    mapBlocks(out.Blocks),
		NextToken: aws.ToString(out.NextToken),
	}, nil
}

// mapBlocks keeps arrival order; kinds outside LINE and PAGE are carried as
// OTHER so downstream consumers see the full sequence.
func mapBlocks(blocks []types.Block) []models.Block {
	out := make([]models.Block, 0, len(blocks))
	for _, b := range blocks {
		switch b.BlockType {
		case types.BlockTypeLine:
			out = append(out, models.Block{Kind: models.BlockKindLine, Text: aws.ToString(b.Text)})
		case types.BlockTypePage:
			out = append(out, models.Block{Kind: models.BlockKindPage})
		case types.BlockTypeWord:
			out = append(out, models.Block{Kind: models.BlockKindWord, Text: aws.ToString(b.Text)})
		default:
			out = append(out, models.Block{Kind: models.BlockKindOther})
		}
	}
	return out
}
