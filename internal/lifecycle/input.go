package lifecycle

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/creatorstation/postdesk/internal/models"
	"github.com/creatorstation/postdesk/internal/timeslot"
	v "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MinWordLimit     = 20
	MaxWordLimit     = 300
	DefaultWordLimit = 100
)

var ImageExtensions = []string{".jpg", ".jpeg", ".png"}

// DraftRequest is what the form supplies to generate or regenerate a draft.
type DraftRequest struct {
	Platform  models.Platform
	Type      models.PostType
	Topic     string
	WordLimit int
}

func (r DraftRequest) Validate() error {
	return v.ValidateStruct(&r,
		v.Field(&r.Platform, platformRules...),
		v.Field(&r.Type, typeRules...),
		v.Field(&r.Topic, v.Required, v.By(notBlank)),
		v.Field(&r.WordLimit, v.Required, v.Min(MinWordLimit), v.Max(MaxWordLimit)),
	)
}

// Image is an optional upload attached when scheduling.
type Image struct {
	Filename string
	Data     []byte
}

func (i Image) Validate() error {
	return v.ValidateStruct(&i,
		v.Field(&i.Filename, v.Required, v.By(imageExtension)),
		v.Field(&i.Data, v.Required),
	)
}

// ScheduleRequest carries the edited draft and form values for a new Pending post.
type ScheduleRequest struct {
	Text          string
	Platform      models.Platform
	Type          models.PostType
	ScheduledTime string
	Image         *Image
}

func (r ScheduleRequest) Validate() error {
	return v.ValidateStruct(&r,
		v.Field(&r.Text, v.Required, v.By(notBlank)),
		v.Field(&r.Platform, platformRules...),
		v.Field(&r.Type, typeRules...),
		v.Field(&r.ScheduledTime, v.Required, v.By(validTime)),
		v.Field(&r.Image),
	)
}

var (
	platformRules = []v.Rule{v.Required, v.In(models.PlatformTwitter, models.PlatformInstagram)}
	typeRules     = []v.Rule{v.Required, v.In(
		models.PostTypeMotivational,
		models.PostTypeTechnical,
		models.PostTypeFunny,
		models.PostTypeAnnouncement,
		models.PostTypePromotional,
	)}
)

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func validTime(value interface{}) error {
	s, _ := value.(string)
	_, err := timeslot.Parse(s)
	return err
}

func imageExtension(value interface{}) error {
	s, _ := value.(string)
	ext := strings.ToLower(filepath.Ext(s))
	for _, allowed := range ImageExtensions {
		if ext == allowed {
			return nil
		}
	}
	return errors.New("must be a jpg, jpeg or png file")
}
