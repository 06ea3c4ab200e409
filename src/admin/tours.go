package admin

import (
	"context"
	"log"
	"strings"
	"tourbook/src/cms"
	"tourbook/src/domain"
	"tourbook/src/types"

	"github.com/gosimple/slug"
)

type TourGateway interface {
	CreatePackage(ctx context.Context, body *types.TourRequestBody, images []cms.TourImage) (uint, error)
	UpdatePackage(ctx context.Context, id uint, body *types.TourRequestBody) error
	DeletePackage(ctx context.Context, id uint) error
}

// Tours edits catalog packages. OnChange runs after every successful edit,
// typically to drop cached catalog pages.
type Tours struct {
	gw       TourGateway
	OnChange func(ctx context.Context)
}

func NewTours(gw TourGateway, onChange func(ctx context.Context)) *Tours {
	return &Tours{gw: gw, OnChange: onChange}
}

func (t *Tours) Create(ctx context.Context, body *types.TourRequestBody, images []cms.TourImage) (uint, error) {
	if err := validateTour(body); err != nil {
		return 0, err
	}
	id, err := t.gw.CreatePackage(ctx, body, images)
	if err != nil {
		return 0, err
	}
	log.Printf("[tours] created %d (%s) with %d images\n", id, slug.Make(body.Title), len(images))
	t.changed(ctx)
	return id, nil
}

func (t *Tours) Update(ctx context.Context, id uint, body *types.TourRequestBody) error {
	if err := validateTour(body); err != nil {
		return err
	}
	if err := t.gw.UpdatePackage(ctx, id, body); err != nil {
		return err
	}
	log.Printf("[tours] updated %d (%s)\n", id, slug.Make(body.Title))
	t.changed(ctx)
	return nil
}

func (t *Tours) Delete(ctx context.Context, id uint) error {
	if err := t.gw.DeletePackage(ctx, id); err != nil {
		return err
	}
	log.Printf("[tours] deleted %d\n", id)
	t.changed(ctx)
	return nil
}

func (t *Tours) changed(ctx context.Context) {
	if t.OnChange != nil {
		t.OnChange(ctx)
	}
}

func validateTour(body *types.TourRequestBody) error {
	var errs domain.ValidationErrors
	if strings.TrimSpace(body.Title) == "" {
		errs = append(errs, domain.ValidationError{Field: "title", Msg: "required"})
	}
	// capacity may reach or pass capacity_max (sold out)
	if body.Capacity < 0 {
		errs = append(errs, domain.ValidationError{Field: "capacity", Msg: "must not be negative"})
	}
	if body.CapacityMax < 0 {
		errs = append(errs, domain.ValidationError{Field: "capacity_max", Msg: "must not be negative"})
	}
	if body.Price < 0 {
		errs = append(errs, domain.ValidationError{Field: "price", Msg: "must not be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
