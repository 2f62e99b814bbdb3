package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/Lcsmrct/Henna-alicia/internal/catalog"
)

type Review struct {
	ID          uuid.UUID           `json:"id"`
	ClientName  string              `json:"client_name"`
	ServiceType catalog.ServiceType `json:"service_type"`
	Rating      int                 `json:"rating"`
	Comment     string              `json:"comment"`
	IsPublished bool                `json:"is_published"`
	CreatedAt   time.Time           `json:"created_at"`
}

type ReviewInput struct {
	ClientName  string              `json:"client_name"`
	ServiceType catalog.ServiceType `json:"service_type"`
	Rating      int                 `json:"rating"`
	Comment     string              `json:"comment"`
}
