package cms

import (
	"strings"
	"time"
	"tourbook/src/config"
	"tourbook/src/models"
	"tourbook/src/types"

	"github.com/gosimple/slug"
	"github.com/tidwall/gjson"
)

// NormalizePackage maps one CMS package entry ({id, attributes}) onto the
// fully defaulted view model.
func NormalizePackage(item gjson.Result, origin string) models.PackageView {
	attrs := item.Get("attributes")
	if !attrs.Exists() {
		attrs = item
	}

	name := attrs.Get("title").String()
	if name == "" {
		name = config.DefaultTitle
	}

	images := []string{}
	attrs.Get("images.data").ForEach(func(_, img gjson.Result) bool {
		if u := img.Get("attributes.url").String(); u != "" {
			images = append(images, absoluteURL(origin, u))
		}
		return true
	})
	image := config.PlaceholderImage
	if len(images) > 0 {
		image = images[0]
	} else {
		images = []string{config.PlaceholderImage}
	}

	description := Description(attrs.Get("description"))
	if description == "" {
		description = config.DefaultDesc
	}

	duration := attrs.Get("duration").String()
	if duration == "" {
		duration = config.NotAvailable
	}

	rating, count := AverageRating(attrs.Get("reviews.data"))

	view := models.PackageView{
		ID:          uint(item.Get("id").Uint()),
		Name:        name,
		Slug:        slug.Make(name),
		Image:       image,
		Images:      images,
		Description: description,
		Rating:      rating,
		Reviews:     count,
		Capacity: models.Capacity{
			Current: int(attrs.Get("capacity").Int()),
			Total:   int(attrs.Get("capacity_max").Int()),
		},
		Duration:    duration,
		Price:       nonNegative(attrs.Get("price").Float()),
		TimeOfTour:  timeTags(attrs.Get("timeOfTour")),
		Specials:    specials(attrs.Get("specials")),
		StartDate:   parseDate(attrs.Get("startDate").String()),
		IsAvailable: availability(attrs.Get("isAvailable")),
	}
	return view
}

// Description flattens either a plain string or a rich-text block list to
// the first text node of the first block.
func Description(v gjson.Result) string {
	switch {
	case v.Type == gjson.String:
		return v.String()
	case v.IsArray():
		return v.Get("0.children.0.text").String()
	}
	return ""
}

// RichText wraps plain text into the single-paragraph block list the CMS
// stores for rich-text fields.
func RichText(text string) []map[string]any {
	return []map[string]any{{
		"type": "paragraph",
		"children": []map[string]any{{
			"type": "text",
			"text": text,
		}},
	}}
}

// AverageRating is the mean of the review ratings; zero reviews give 0.
func AverageRating(reviews gjson.Result) (float64, int) {
	var sum float64
	count := 0
	reviews.ForEach(func(_, r gjson.Result) bool {
		rating := r.Get("attributes.rating")
		if !rating.Exists() {
			rating = r.Get("rating")
		}
		sum += rating.Float()
		count++
		return true
	})
	if count == 0 {
		return 0, 0
	}
	avg := sum / float64(count)
	if avg < 0 {
		avg = 0
	}
	return avg, count
}

func NormalizeReview(item gjson.Result) models.Review {
	attrs := item.Get("attributes")
	if !attrs.Exists() {
		attrs = item
	}
	return models.Review{
		ID:      uint(item.Get("id").Uint()),
		Rating:  int(attrs.Get("rating").Int()),
		Comment: attrs.Get("comment").String(),
	}
}

// NormalizeUser reads a CMS user. Roles come either as a plain list or from
// the role relation.
func NormalizeUser(u gjson.Result) *models.UserRecord {
	user := &models.UserRecord{
		ID:       uint(u.Get("id").Uint()),
		Username: u.Get("username").String(),
		Email:    u.Get("email").String(),
		Name:     u.Get("name").String(),
		Roles:    []string{},
	}
	u.Get("roles").ForEach(func(_, r gjson.Result) bool {
		if r.Type == gjson.String {
			user.Roles = append(user.Roles, r.String())
		} else if name := r.Get("name").String(); name != "" {
			user.Roles = append(user.Roles, strings.ToLower(name))
		}
		return true
	})
	for _, key := range []string{"role.type", "role.name"} {
		if role := u.Get(key).String(); role != "" {
			user.Roles = appendUnique(user.Roles, strings.ToLower(role))
		}
	}
	return user
}

// NormalizeBooking maps a payment entry joined with its customer and slip.
func NormalizeBooking(item gjson.Result, origin string) models.BookingRecord {
	attrs := item.Get("attributes")
	customer := attrs.Get("users_permissions_user.data.attributes")

	status := types.PaymentStatus(attrs.Get("payment_status").String())
	if status == "" {
		status = types.PAYMENT_PENDING
	}
	return models.BookingRecord{
		PaymentID:    uint(item.Get("id").Uint()),
		CustomerName: orNA(customerName(customer)),
		Email:        orNA(customer.Get("email").String()),
		Phone:        orNA(customer.Get("phone").String()),
		Status:       status,
		Amount:       attrs.Get("amount").Float(),
		PaymentDate:  attrs.Get("payment_date").String(),
		SlipURL:      SlipURL(item, origin),
	}
}

// SlipURL returns the payment slip url of a payment entry, or nil.
func SlipURL(item gjson.Result, origin string) *string {
	u := item.Get("attributes.payment_slip.data.attributes.url").String()
	if u == "" {
		return nil
	}
	abs := absoluteURL(origin, u)
	return &abs
}

func NormalizePayment(item gjson.Result) models.Payment {
	attrs := item.Get("attributes")
	return models.Payment{
		ID:           uint(item.Get("id").Uint()),
		Amount:       attrs.Get("amount").Float(),
		PaymentDate:  attrs.Get("payment_date").String(),
		Status:       types.PaymentStatus(attrs.Get("payment_status").String()),
		PackageTitle: orNA(attrs.Get("package.data.attributes.title").String()),
		CustomerName: orNA(customerName(attrs.Get("users_permissions_user.data.attributes"))),
	}
}

func NormalizeHistory(item gjson.Result) models.HistoryEntry {
	attrs := item.Get("attributes")
	if !attrs.Exists() {
		attrs = item
	}
	status := attrs.Get("payments.data.0.attributes.payment_status").String()
	if status == "" {
		status = "Not Paid"
	}
	return models.HistoryEntry{
		ID:            uint(item.Get("id").Uint()),
		Title:         attrs.Get("title").String(),
		Number:        int(attrs.Get("Number").Int()),
		Price:         attrs.Get("price").Float(),
		Special:       attrs.Get("special").String(),
		Date:          attrs.Get("Date").String(),
		PaymentStatus: status,
	}
}

func customerName(u gjson.Result) string {
	if name := u.Get("username").String(); name != "" {
		return name
	}
	return u.Get("name").String()
}

func absoluteURL(origin, u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return origin + u
}

func timeTags(v gjson.Result) []types.TimeTag {
	tags := []types.TimeTag{}
	if v.Type == gjson.String && v.String() != "" {
		return append(tags, types.TimeTag(v.String()))
	}
	v.ForEach(func(_, t gjson.Result) bool {
		if s := t.String(); s != "" {
			tags = append(tags, types.TimeTag(s))
		}
		return true
	})
	return tags
}

func specials(v gjson.Result) []types.Special {
	out := []types.Special{}
	v.ForEach(func(_, s gjson.Result) bool {
		if str := s.String(); str != "" {
			out = append(out, types.Special(str))
		}
		return true
	})
	return out
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{config.DATE_FORMAT, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func availability(v gjson.Result) bool {
	switch v.Type {
	case gjson.True, gjson.False:
		return v.Bool()
	case gjson.String:
		return v.String() == "Available"
	}
	return true
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

func orNA(s string) string {
	if s == "" {
		return config.NotAvailable
	}
	return s
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
