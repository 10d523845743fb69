package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beehivemonitor/console/internal/alerting"
)

// alertListEntry is one row of the rule list view: status and conditions
// already formatted for display.
type alertListEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HiveID     string `json:"hiveId"`
	HiveName   string `json:"hiveName"`
	Conditions string `json:"conditions"`
	Status     string `json:"status"`
	Triggered  bool   `json:"triggered"`
	CreatedAt  string `json:"createdAt"`
}

// alertPayload is the editor form state submitted on create/update.
// Condition values may arrive as JSON strings or numbers.
type alertPayload struct {
	Name       string                      `json:"name"`
	HiveID     string                      `json:"hiveId"`
	Conditions []alerting.TriggerCondition `json:"conditions"`
}

// editorSeed is what the edit view needs to populate the form.
type editorSeed struct {
	RuleID     string                      `json:"ruleId"`
	Name       string                      `json:"name"`
	HiveID     string                      `json:"hiveId"`
	HiveLocked bool                        `json:"hiveLocked"`
	Conditions []alerting.TriggerCondition `json:"conditions"`
}

// GetAlertSchema returns the parameter/operator catalog for the editor.
func (c *Controller) GetAlertSchema(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, alerting.GetSchema())
}

// ListAlerts renders the cached rule list.
func (c *Controller) ListAlerts(ctx echo.Context) error {
	rules := c.registry.Rules()
	entries := make([]alertListEntry, 0, len(rules))
	for _, r := range rules {
		entries = append(entries, alertListEntry{
			ID:         r.ID,
			Name:       r.Name,
			HiveID:     r.HiveID,
			HiveName:   r.HiveName,
			Conditions: r.FormattedConditions(),
			Status:     r.Status().String(),
			Triggered:  r.Triggered(),
			CreatedAt:  r.CreatedAt,
		})
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"alerts": entries,
		"count":  len(entries),
	})
}

// GetAlertEditor seeds the edit form for an existing rule. The hive
// binding is locked from here on.
func (c *Controller) GetAlertEditor(ctx echo.Context) error {
	editor := alerting.NewEditor(c.alerts, c.hives, c.log)
	if err := editor.LoadForEdit(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return c.handleError(ctx, err)
	}
	draft := editor.Draft()
	return ctx.JSON(http.StatusOK, editorSeed{
		RuleID:     draft.RuleID,
		Name:       draft.Name,
		HiveID:     draft.HiveID,
		HiveLocked: editor.HiveLocked(),
		Conditions: draft.Conditions.Conditions(),
	})
}

// CreateAlert submits a new rule definition.
func (c *Controller) CreateAlert(ctx echo.Context) error {
	var payload alertPayload
	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	editor := alerting.NewEditor(c.alerts, c.hives, c.log)
	editor.SetName(payload.Name)
	if err := editor.SetHive(payload.HiveID); err != nil {
		return c.handleError(ctx, err)
	}
	if err := editor.ReplaceConditions(payload.Conditions); err != nil {
		return c.handleError(ctx, err)
	}

	rule, err := editor.Submit(ctx.Request().Context())
	if err != nil {
		return c.handleError(ctx, err)
	}
	c.registry.Refresh(ctx.Request().Context())
	return ctx.JSON(http.StatusCreated, map[string]string{"id": rule.ID, "name": rule.Name})
}

// UpdateAlert submits changes to an existing rule. The hive binding is
// immutable; a payload naming a different hive is rejected.
func (c *Controller) UpdateAlert(ctx echo.Context) error {
	var payload alertPayload
	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	editor := alerting.NewEditor(c.alerts, c.hives, c.log)
	if err := editor.LoadForEdit(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return c.handleError(ctx, err)
	}
	editor.SetName(payload.Name)
	if payload.HiveID != "" {
		if err := editor.SetHive(payload.HiveID); err != nil {
			return c.handleError(ctx, err)
		}
	}
	if err := editor.ReplaceConditions(payload.Conditions); err != nil {
		return c.handleError(ctx, err)
	}

	rule, err := editor.Submit(ctx.Request().Context())
	if err != nil {
		return c.handleError(ctx, err)
	}
	c.registry.Refresh(ctx.Request().Context())
	return ctx.JSON(http.StatusOK, map[string]string{"id": rule.ID, "name": rule.Name})
}

// DeleteAlert removes a rule. The operator's confirmation arrives as
// ?confirm=true; without it no delete request is issued.
func (c *Controller) DeleteAlert(ctx echo.Context) error {
	confirmed := ctx.QueryParam("confirm") == "true"
	if err := c.registry.Remove(ctx.Request().Context(), ctx.Param("id"), confirmed); err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ResetAlert requests the remote service move a triggered rule back to
// Normal; the refreshed list carries the authoritative state.
func (c *Controller) ResetAlert(ctx echo.Context) error {
	if err := c.registry.Reset(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "reset requested"})
}

// ListHives returns the hive selector entries.
func (c *Controller) ListHives(ctx echo.Context) error {
	hives, err := c.hives.ListHives(ctx.Request().Context())
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, hives)
}
