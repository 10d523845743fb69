package alerting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEditor(fake *fakeAlertService) *Editor {
	return NewEditor(fake, &fakeHiveService{}, zap.NewNop())
}

func TestEditor_LoadForCreate(t *testing.T) {
	e := newTestEditor(&fakeAlertService{})
	d := e.Draft()

	assert.Empty(t, d.Name)
	assert.Empty(t, d.HiveID)
	assert.False(t, d.Editing())
	assert.False(t, e.HiveLocked())
	require.Equal(t, 1, d.Conditions.Len())
	assert.Equal(t, BlankCondition(), d.Conditions.At(0))
}

func TestEditor_SubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(e *Editor)
		wantErr error
	}{
		{
			"missing name",
			func(e *Editor) {},
			ErrNameRequired,
		},
		{
			"missing hive",
			func(e *Editor) { e.SetName("Overheat") },
			ErrHiveRequired,
		},
		{
			"no complete condition",
			func(e *Editor) {
				e.SetName("Overheat")
				require.NoError(t, e.SetHive("H1"))
			},
			ErrNoConditions,
		},
		{
			"parameter without value is not complete",
			func(e *Editor) {
				e.SetName("Overheat")
				require.NoError(t, e.SetHive("H1"))
				require.NoError(t, e.UpdateCondition(0, FieldParameter, ParameterTemperature))
			},
			ErrNoConditions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAlertService{}
			e := newTestEditor(fake)
			tt.prepare(e)

			_, err := e.Submit(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
			// Validation failures never reach the network.
			assert.Zero(t, fake.networkCalls())
		})
	}
}

func TestEditor_SubmitCreatesRule(t *testing.T) {
	// Operator creates "Overheat" on hive H1 with one temperature condition.
	fake := &fakeAlertService{}
	e := newTestEditor(fake)
	e.SetName("Overheat")
	require.NoError(t, e.SetHive("H1"))
	require.NoError(t, e.UpdateCondition(0, FieldParameter, ParameterTemperature))
	require.NoError(t, e.UpdateCondition(0, FieldValue, "38"))

	rule, err := e.Submit(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, rule.ID)

	assert.Equal(t, 1, fake.createCalls)
	assert.Equal(t, "Overheat", fake.lastCreate.Name)
	assert.Equal(t, "H1", fake.lastCreate.HiveID)

	decoded := DecodeConditions(fake.lastCreate.TriggerConditions)
	require.Equal(t, 1, decoded.Len())
	assert.Equal(t, TriggerCondition{
		Parameter: ParameterTemperature,
		Operator:  OperatorGreaterThan,
		Value:     "38",
	}, decoded.At(0))
}

func TestEditor_SubmitOnlyTransmitsCompleteRows(t *testing.T) {
	fake := &fakeAlertService{}
	e := newTestEditor(fake)
	e.SetName("Range check")
	require.NoError(t, e.SetHive("H1"))
	require.NoError(t, e.UpdateCondition(0, FieldParameter, ParameterWeight))
	require.NoError(t, e.UpdateCondition(0, FieldValue, "15"))
	require.NoError(t, e.AddCondition())
	require.NoError(t, e.UpdateCondition(1, FieldParameter, ParameterHumidity))
	// Second row never gets a value.

	_, err := e.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, DecodeConditions(fake.lastCreate.TriggerConditions).Len())
}

func TestEditor_SubmitFailurePreservesDraft(t *testing.T) {
	fake := &fakeAlertService{createErr: errors.New("A rule with this name already exists")}
	e := newTestEditor(fake)
	e.SetName("Overheat")
	require.NoError(t, e.SetHive("H1"))
	require.NoError(t, e.UpdateCondition(0, FieldParameter, ParameterTemperature))
	require.NoError(t, e.UpdateCondition(0, FieldValue, "38"))

	_, err := e.Submit(context.Background())
	require.Error(t, err)

	// Draft untouched so the operator can correct and resubmit.
	d := e.Draft()
	assert.Equal(t, "Overheat", d.Name)
	assert.Equal(t, "H1", d.HiveID)
	assert.Equal(t, ThresholdValue("38"), d.Conditions.At(0).Value)
	assert.Equal(t, "A rule with this name already exists", e.SubmissionError())

	// A second submit retries the same draft.
	fake.createErr = nil
	_, err = e.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fake.createCalls)
	assert.Empty(t, e.SubmissionError())
}

func TestEditor_FieldEditClearsSubmissionError(t *testing.T) {
	fake := &fakeAlertService{createErr: errors.New("rejected")}
	e := newTestEditor(fake)
	e.SetName("Overheat")
	require.NoError(t, e.SetHive("H1"))
	require.NoError(t, e.UpdateCondition(0, FieldParameter, ParameterTemperature))
	require.NoError(t, e.UpdateCondition(0, FieldValue, "38"))

	_, err := e.Submit(context.Background())
	require.Error(t, err)
	require.NotEmpty(t, e.SubmissionError())

	require.NoError(t, e.UpdateCondition(0, FieldValue, "39"))
	assert.Empty(t, e.SubmissionError())
}

func TestEditor_LoadForEditLocksHive(t *testing.T) {
	fake := &fakeAlertService{
		rules: []AlertRule{NewAlertRule(
			"rule-1", "Cold snap", "H2", "Orchard hive",
			`[{"parameter":"externalTemperature","operator":"<","value":"0"}]`,
			"2025-03-01T08:00:00", true,
		)},
	}
	e := newTestEditor(fake)
	require.NoError(t, e.LoadForEdit(context.Background(), "rule-1"))

	d := e.Draft()
	assert.True(t, d.Editing())
	assert.Equal(t, "Cold snap", d.Name)
	assert.Equal(t, "H2", d.HiveID)
	require.Equal(t, 1, d.Conditions.Len())
	assert.Equal(t, ParameterExternalTemp, d.Conditions.At(0).Parameter)

	assert.True(t, e.HiveLocked())
	assert.ErrorIs(t, e.SetHive("H3"), ErrHiveLocked)
	// Re-selecting the same hive is a no-op, not an error.
	assert.NoError(t, e.SetHive("H2"))
}

func TestEditor_LoadForEditMalformedConditions(t *testing.T) {
	fake := &fakeAlertService{
		rules: []AlertRule{NewAlertRule(
			"rule-1", "Legacy", "H1", "", "{corrupt", "2024-01-01T00:00:00", false,
		)},
	}
	e := newTestEditor(fake)
	require.NoError(t, e.LoadForEdit(context.Background(), "rule-1"))

	// The editor still gets one blank row to show.
	d := e.Draft()
	require.Equal(t, 1, d.Conditions.Len())
	assert.Equal(t, BlankCondition(), d.Conditions.At(0))
}

func TestEditor_SubmitUpdatesExistingRule(t *testing.T) {
	fake := &fakeAlertService{
		rules: []AlertRule{NewAlertRule(
			"rule-1", "Cold snap", "H2", "",
			`[{"parameter":"externalTemperature","operator":"<","value":"0"}]`,
			"2025-03-01T08:00:00", false,
		)},
	}
	e := newTestEditor(fake)
	require.NoError(t, e.LoadForEdit(context.Background(), "rule-1"))
	e.SetName("Cold snap v2")
	require.NoError(t, e.UpdateCondition(0, FieldValue, "-5"))

	_, err := e.Submit(context.Background())
	require.NoError(t, err)

	assert.Zero(t, fake.createCalls)
	assert.Equal(t, 1, fake.updateCalls)
	assert.Equal(t, "rule-1", fake.lastUpdateID)
	assert.Equal(t, "Cold snap v2", fake.lastUpdate.Name)
	assert.Equal(t, "H2", fake.lastUpdate.HiveID)
}

func TestEditor_ReplaceConditions(t *testing.T) {
	e := newTestEditor(&fakeAlertService{})

	t.Run("applies rows", func(t *testing.T) {
		err := e.ReplaceConditions([]TriggerCondition{
			{Parameter: ParameterCO2, Operator: OperatorGreaterThan, Value: "400"},
			{Parameter: ParameterSound, Value: "70"}, // empty operator falls back
		})
		require.NoError(t, err)
		d := e.Draft()
		require.Equal(t, 2, d.Conditions.Len())
		assert.Equal(t, DefaultOperator, d.Conditions.At(1).Operator)
	})

	t.Run("refuses more than four", func(t *testing.T) {
		rows := make([]TriggerCondition, 5)
		for i := range rows {
			rows[i] = TriggerCondition{Parameter: ParameterCO2, Operator: ">", Value: "1"}
		}
		assert.ErrorIs(t, e.ReplaceConditions(rows), ErrTooManyConditions)
	})

	t.Run("empty leaves one blank row", func(t *testing.T) {
		require.NoError(t, e.ReplaceConditions(nil))
		assert.Equal(t, 1, e.Draft().Conditions.Len())
	})
}

func TestEditor_Hives(t *testing.T) {
	hives := []Hive{{ID: "H1", Name: "Garden", Location: "South field"}}
	e := NewEditor(&fakeAlertService{}, &fakeHiveService{hives: hives}, zap.NewNop())

	got, err := e.Hives(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hives, got)
}
