// Package posts exposes the post lifecycle over HTTP.
package posts

import (
	"errors"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/creatorstation/postdesk/internal/lifecycle"
	"github.com/creatorstation/postdesk/internal/models"
	"github.com/creatorstation/postdesk/internal/publisher"
	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	svc *lifecycle.Service
	now func() time.Time
}

func MountController(router fiber.Router, svc *lifecycle.Service) *Controller {
	ctl := &Controller{svc: svc, now: time.Now}

	router.Post("/drafts", ctl.GenerateDraft)
	router.Post("/drafts/regenerate", ctl.RegenerateDraft)
	router.Delete("/drafts", ctl.DiscardDraft)

	router.Post("/posts", ctl.SchedulePost)
	router.Get("/posts", ctl.ListPosts)
	router.Get("/posts/pending", ctl.PendingPosts)
	router.Post("/posts/:id/approve", ctl.ApprovePost)
	router.Post("/posts/:id/reject", ctl.RejectPost)

	router.Get("/uploads/:ref", ctl.Upload)
	router.Post("/publish", ctl.Publish)

	return ctl
}

func (ctl *Controller) GenerateDraft(c *fiber.Ctx) error {
	var body DraftBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, err)
	}

	draft, err := ctl.svc.GenerateDraft(c.UserContext(), body.request())
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"draft": draft,
	})
}

func (ctl *Controller) RegenerateDraft(c *fiber.Ctx) error {
	var body DraftBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, err)
	}

	draft, err := ctl.svc.Regenerate(c.UserContext(), body.request())
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"draft": draft,
	})
}

func (ctl *Controller) DiscardDraft(c *fiber.Ctx) error {
	var draft lifecycle.Draft
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&draft); err != nil {
			return badRequest(c, err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Content cleared",
		"draft":   ctl.svc.Reject(draft),
	})
}

func (ctl *Controller) SchedulePost(c *fiber.Ctx) error {
	var body ScheduleBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, err)
	}

	req := lifecycle.ScheduleRequest{
		Text:          body.Text,
		Platform:      body.Platform,
		Type:          body.Type,
		ScheduledTime: body.ScheduledTime,
	}

	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return badRequest(c, err)
		}
		image, err := readUpload(form, "image")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		req.Image = image
	}

	draft := lifecycle.Draft{Text: body.Text, Platform: body.Platform, Type: body.Type}
	post, draft, err := ctl.svc.SchedulePost(c.UserContext(), draft, req)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
			"draft": draft,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"post":  newPostView(post, ctl.now()),
		"draft": draft,
	})
}

func (ctl *Controller) ListPosts(c *fiber.Ctx) error {
	var filter *models.Status
	if raw := c.Query("status"); raw != "" {
		status := models.Status(raw)
		if !status.Valid() {
			return badRequest(c, errors.New("status must be one of Pending, Approved, Rejected"))
		}
		filter = &status
	}

	posts, err := ctl.svc.Posts(c.UserContext(), filter)
	if err != nil {
		return sendError(c, err)
	}
	return ctl.sendPosts(c, posts)
}

func (ctl *Controller) PendingPosts(c *fiber.Ctx) error {
	posts, err := ctl.svc.PendingPosts(c.UserContext())
	if err != nil {
		return sendError(c, err)
	}
	return ctl.sendPosts(c, posts)
}

func (ctl *Controller) ApprovePost(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ctl.svc.Approve(c.UserContext(), id); err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post " + id + " approved",
	})
}

func (ctl *Controller) RejectPost(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := ctl.svc.RejectPending(c.UserContext(), id); err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post " + id + " rejected",
	})
}

func (ctl *Controller) Upload(c *fiber.Ctx) error {
	ref := c.Params("ref")

	data, err := ctl.svc.Image(c.UserContext(), ref)
	if err != nil {
		return sendError(c, err)
	}

	c.Type(strings.TrimPrefix(filepath.Ext(ref), "."))
	return c.Status(fiber.StatusOK).Send(data)
}

func (ctl *Controller) Publish(c *fiber.Ctx) error {
	var body PublishBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, err)
	}

	if err := body.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("Publishing to %s", body.Platform)

	res, err := ctl.svc.PublishNow(c.UserContext(), body.Text, body.Platform)
	if err != nil {
		var perr *publisher.PublishError
		if errors.As(err, &perr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":  err.Error(),
				"result": res,
			})
		}
		return sendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"result": res,
	})
}

func (ctl *Controller) sendPosts(c *fiber.Ctx, posts []models.Post) error {
	now := ctl.now()
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(p, now))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"posts": views,
	})
}
