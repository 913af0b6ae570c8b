package analyzer

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehendmedical"
	cmtypes "github.com/aws/aws-sdk-go-v2/service/comprehendmedical/types"

	"github.com/getmarco/medtextanalyze/internal/models"
)

// ComprehendDetector implements EntityDetector over an AWS Comprehend
// Medical client.
type ComprehendDetector struct {
	client *comprehendmedical.Client
}

// NewComprehendDetector wraps an already-constructed Comprehend Medical
// client.
func NewComprehendDetector(client *comprehendmedical.Client) *ComprehendDetector {
	return &ComprehendDetector{client: client}
}

func (d *ComprehendDetector) DetectEntities(ctx context.Context, text string) ([]models.Entity, error) {
	out, err := d.client.DetectEntitiesV2(ctx, &comprehendmedical.DetectEntitiesV2Input{
		Text: aws.String(text),
	})
	if err != nil {
		return nil, &RemoteError{Service: "comprehendmedical", Op: "DetectEntitiesV2", Err: err}
	}

	entities := make([]models.Entity, 0, len(out.Entities))
	for _, e := range out.Entities {
		entities = append(entities, mapEntity(e))
	}
	return entities, nil
}

func mapEntity(e cmtypes.Entity) models.Entity {
	entity := models.Entity{
		Category:    models.ParseEntityCategory(string(e.Category)),
		RawCategory: string(e.Category),
		Type:        string(e.Type),
		Text:        aws.ToString(e.Text),
	}
	for _, attr := range e.Attributes {
		entity.Attributes = append(entity.Attributes, models.EntityAttribute{
			Type: string(attr.Type),
			Text: aws.ToString(attr.Text),
		})
	}
	return entity
}
