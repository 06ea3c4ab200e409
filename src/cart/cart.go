package cart

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
	"tourbook/src/config"
	"tourbook/src/domain"
	"tourbook/src/lib"
	"tourbook/src/models"
	"tourbook/src/types"
)

// Confirmer answers the blocking "remove this line?" prompt.
type Confirmer interface {
	Confirm(ctx context.Context, line models.CartLine) bool
}

type ConfirmFunc func(ctx context.Context, line models.CartLine) bool

func (f ConfirmFunc) Confirm(ctx context.Context, line models.CartLine) bool {
	return f(ctx, line)
}

// Always confirms; used when the caller already asked the user.
var Always = ConfirmFunc(func(context.Context, models.CartLine) bool { return true })

// Cart is the persisted cart of one session. Every mutation is a single
// load-modify-save cycle under the cart's lock.
type Cart struct {
	mu       sync.Mutex
	id       string
	slot     lib.Slot
	lastUsed time.Time
}

func New(sessionID string, slot lib.Slot) *Cart {
	return &Cart{id: sessionID, slot: slot, lastUsed: time.Now()}
}

func (c *Cart) key() string {
	return lib.SlotKey(c.id, config.CartSlotKey)
}

func (c *Cart) load(ctx context.Context) ([]models.CartLine, error) {
	raw, ok, err := c.slot.Get(ctx, c.key())
	if err != nil {
		return nil, err
	}
	lines := []models.CartLine{}
	if !ok || raw == "" {
		return lines, nil
	}
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		log.Printf("[cart] %s: discarding unreadable cart: %s\n", c.id, err.Error())
		return []models.CartLine{}, nil
	}
	return lines, nil
}

func (c *Cart) save(ctx context.Context, lines []models.CartLine) error {
	b, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return c.slot.Set(ctx, c.key(), string(b))
}

func (c *Cart) Lines(ctx context.Context) ([]models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = time.Now()
	return c.load(ctx)
}

// Add appends pkg as a new line, or bumps the quantity of the existing line
// for the same package. Options of an existing line are kept.
func (c *Cart) Add(ctx context.Context, pkg models.PackageView, opts models.CartOptions) ([]models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = time.Now()

	lines, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	merged := false
	for i := range lines {
		if lines[i].PackageID == pkg.ID {
			lines[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, newLine(pkg, opts))
	}
	if err := c.save(ctx, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Remove deletes the line for packageID once confirm agrees.
func (c *Cart) Remove(ctx context.Context, packageID uint, confirm Confirmer) ([]models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = time.Now()

	lines, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range lines {
		if lines[i].PackageID == packageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.NotFoundError{Resource: "cart line"}
	}
	if confirm == nil || !confirm.Confirm(ctx, lines[idx]) {
		return nil, domain.ConfirmationRequiredError{Action: "remove " + lines[idx].Title}
	}
	lines = append(lines[:idx], lines[idx+1:]...)
	if err := c.save(ctx, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (c *Cart) clear(ctx context.Context) error {
	return c.slot.Delete(ctx, c.key())
}

func LineTotal(line models.CartLine) float64 {
	return line.Price * float64(line.Quantity)
}

func Total(lines []models.CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += LineTotal(l)
	}
	return total
}

// DefaultOptions fills the choices left blank on add: today's date, two
// travelers, a morning slot and pick-up-and-drop.
func DefaultOptions(opts models.CartOptions, now time.Time) models.CartOptions {
	if opts.SelectedDate == "" {
		opts.SelectedDate = now.Format(config.DATE_FORMAT)
	}
	if opts.Travelers < 1 {
		opts.Travelers = 2
	}
	if opts.TimeOfTour == "" {
		opts.TimeOfTour = types.TIME_MORNING
	}
	if opts.PickupOption == "" {
		opts.PickupOption = types.PICKUP_AND_DROP
	}
	if opts.PickupOption != types.PICKUP_SPLIT {
		opts.PickupLocation = ""
		opts.DropoffLocation = ""
	}
	if opts.Specials == nil {
		opts.Specials = []string{}
	}
	return opts
}

func newLine(pkg models.PackageView, opts models.CartOptions) models.CartLine {
	return models.CartLine{
		PackageID:       pkg.ID,
		Title:           pkg.Name,
		Price:           pkg.Price,
		Image:           pkg.Image,
		Duration:        pkg.Duration,
		TimeOfTour:      opts.TimeOfTour,
		Specials:        opts.Specials,
		SelectedDate:    opts.SelectedDate,
		Travelers:       opts.Travelers,
		PickupOption:    opts.PickupOption,
		PickupLocation:  opts.PickupLocation,
		DropoffLocation: opts.DropoffLocation,
		Quantity:        1,
	}
}
