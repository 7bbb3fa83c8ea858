package service

import (
	"context"
	"strconv"
	"strings"

	"FRD_airdrop_bot/internal/model"
	"FRD_airdrop_bot/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// FlowController is the single dispatch table for every inbound event.
// It decides who the sender is, what step they are on, what changes in the
// store, and what gets said next. One response per event, always; a store
// failure yields the generic try-again text instead of silence or a crash.
type FlowController struct {
	referrals   ReferralServiceI
	credentials CredentialServiceI
	states      *StateTable
	admins      map[int64]struct{}
}

func NewFlowController(referrals ReferralServiceI, credentials CredentialServiceI, states *StateTable, adminIDs []int64) *FlowController {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &FlowController{
		referrals:   referrals,
		credentials: credentials,
		states:      states,
		admins:      admins,
	}
}

func (f *FlowController) isAdmin(id int64) bool {
	_, ok := f.admins[id]
	return ok
}

func (f *FlowController) HandleCommand(ctx context.Context, cmd model.Command) *model.Response {
	switch strings.ToLower(cmd.Name) {
	case "start", "hello", "help":
		return f.handleEntry(ctx, cmd)
	case "cleardata":
		return f.handleClearData(ctx, cmd)
	case "export":
		return f.handleExport(ctx, cmd)
	default:
		return &model.Response{Body: textUnknownCommand}
	}
}

func (f *FlowController) handleEntry(ctx context.Context, cmd model.Command) *model.Response {
	log := logger.Logger()

	var inviterID *int64
	if arg := strings.Fields(cmd.Args); len(arg) > 0 {
		id, err := strconv.ParseInt(arg[0], 10, 64)
		if err == nil {
			inviterID = &id
		}
	}

	res, err := f.referrals.RegisterReferral(ctx, cmd.SenderID, cmd.SenderName, inviterID)
	if err != nil {
		log.Error("failed to register referral",
			zap.Int64("sender_id", cmd.SenderID), zap.Error(err))
		return &model.Response{Body: textTryAgain}
	}

	if res.Created {
		return &model.Response{
			Photo:   logoURL,
			Body:    textOnboarding(cmd.SenderName, res.Participant.ReferralLink, res.Participant.Referrals),
			Buttons: []model.Button{{Label: "About Fifareward", Tag: btnDetails}},
			Format:  model.FormatMarkdown,
		}
	}

	return &model.Response{
		Photo:   logoURL,
		Body:    textWelcomeBack(cmd.SenderName),
		Buttons: []model.Button{{Label: "Check My Status", Tag: btnStatus}},
		Format:  model.FormatMarkdown,
	}
}

func (f *FlowController) handleClearData(ctx context.Context, cmd model.Command) *model.Response {
	if !f.isAdmin(cmd.SenderID) {
		return &model.Response{Body: textPermissionDenied}
	}
	if err := f.referrals.ClearAll(ctx); err != nil {
		logger.Logger().Error("failed to clear campaign data", zap.Error(err))
		return &model.Response{Body: textTryAgain}
	}
	return &model.Response{Body: textCleared}
}

func (f *FlowController) handleExport(ctx context.Context, cmd model.Command) *model.Response {
	if !f.isAdmin(cmd.SenderID) {
		return &model.Response{Body: textPermissionDenied}
	}

	kind := model.CredentialWallet
	if arg := strings.Fields(cmd.Args); len(arg) > 0 {
		k := model.CredentialKind(strings.ToLower(arg[0]))
		if k.Valid() {
			kind = k
		}
	}

	path, err := f.credentials.ExportFile(ctx, kind)
	if err != nil {
		logger.Logger().Error("failed to export credentials",
			zap.String("kind", string(kind)), zap.Error(err))
		return &model.Response{Body: textTryAgain}
	}
	return &model.Response{Body: textExportCaption, Document: path}
}

func (f *FlowController) HandleButton(ctx context.Context, press model.ButtonPress) *model.Response {
	switch press.Tag {
	case btnDetails:
		return &model.Response{
			Body:    textAbout,
			Buttons: []model.Button{{Label: "Join Airdrop Campaign", Tag: btnJoinAirdrop}},
		}

	case btnJoinAirdrop:
		return &model.Response{
			Body:    textJoinTasks,
			Buttons: []model.Button{{Label: "Have Completed Tasks", Tag: btnTasksDone}},
			Format:  model.FormatHTML,
		}

	case btnTasksDone:
		return &model.Response{
			Body:    textTasksDone,
			Buttons: submitKindButtons(),
		}

	case btnContinue:
		return f.renderStatus(ctx, press.SenderID, press.SenderName)

	case btnSubmitWallet:
		return f.beginSubmission(press.SenderID, model.CredentialWallet)
	case btnSubmitEmail:
		return f.beginSubmission(press.SenderID, model.CredentialEmail)
	case btnSubmitHandle:
		return f.beginSubmission(press.SenderID, model.CredentialHandle)

	case btnStatus:
		return f.renderStatus(ctx, press.SenderID, press.SenderName)

	case btnYes:
		return &model.Response{Body: textSubmittedThanks}

	case btnNo:
		return f.beginSubmission(press.SenderID, model.CredentialWallet)

	default:
		return nil
	}
}

func (f *FlowController) beginSubmission(senderID int64, kind model.CredentialKind) *model.Response {
	f.states.Set(senderID, StepFor(kind))
	return &model.Response{Body: textPrompt(kind)}
}

func (f *FlowController) renderStatus(ctx context.Context, senderID int64, senderName string) *model.Response {
	p, err := f.referrals.GetParticipant(ctx, senderID)
	if errors.Is(err, ErrParticipantNotFound) {
		return &model.Response{
			Photo:  logoURL,
			Body:   textMustJoin(senderName),
			Format: model.FormatMarkdown,
		}
	}
	if err != nil {
		logger.Logger().Error("failed to load participant for status",
			zap.Int64("sender_id", senderID), zap.Error(err))
		return &model.Response{Body: textTryAgain}
	}

	return &model.Response{
		Photo: logoURL,
		Body:  textStatus(p.ReferralLink, p.Referrals),
		Buttons: []model.Button{
			{Label: "Yes", Tag: btnYes},
			{Label: "No", Tag: btnNo},
		},
		Format: model.FormatMarkdown,
	}
}

func (f *FlowController) HandleText(ctx context.Context, msg model.TextMessage) *model.Response {
	step := f.states.Get(msg.SenderID)

	if kind, ok := step.Kind(); ok {
		// Whatever happens next, the pending step is consumed by this
		// message. Leaving it set would bleed into unrelated later texts.
		f.states.Clear(msg.SenderID)
		return f.handleSubmission(ctx, msg, kind)
	}

	// Idle free text: unknown senders are told to join via a referral
	// link and never get a record; known senders see their status. The
	// legacy "looks like a wallet address" shortcut is gone on purpose;
	// text only counts as a submission inside an awaiting step.
	return f.renderStatus(ctx, msg.SenderID, msg.SenderName)
}

func (f *FlowController) handleSubmission(ctx context.Context, msg model.TextMessage, kind model.CredentialKind) *model.Response {
	err := f.credentials.Submit(ctx, msg.SenderID, kind, strings.TrimSpace(msg.Text))
	switch {
	case err == nil:
		return &model.Response{Body: textSaved(msg.SenderName, kind)}
	case errors.Is(err, ErrInvalidValue):
		return &model.Response{Body: textInvalid(kind)}
	case errors.Is(err, ErrAlreadySubmitted):
		return &model.Response{Body: textAlreadySubmitted(kind)}
	default:
		logger.Logger().Error("failed to store credential",
			zap.Int64("sender_id", msg.SenderID),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return &model.Response{Body: textTryAgain}
	}
}
