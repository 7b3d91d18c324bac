package billing

import (
	"fmt"

	"github.com/mrtin42/dub/pkg/email"
	"github.com/mrtin42/dub/pkg/workspace"
)

// Email bodies are simple transactional HTML assembled inline; template
// rendering lives with the marketing site, not this service.

func upgradeEmail(ws *workspace.Workspace, plan Plan, recipient workspace.User) email.SendEmailParams {
	name := recipient.Name
	if name == "" {
		name = "there"
	}

	return email.SendEmailParams{
		SendTo:  recipient.Email,
		Subject: fmt.Sprintf("Your workspace %s is now on the %s plan", ws.Name, plan.Name),
		BodyHTML: fmt.Sprintf(
			"<p>Hey %s,</p>"+
				"<p>Thanks for upgrading <strong>%s</strong> to the <strong>%s</strong> plan. "+
				"You now have %s tracked clicks, %s links, and %s custom domains per month.</p>"+
				"<p>— The Dub team</p>",
			name, ws.Name, plan.Name,
			formatLimit(plan.UsageLimit), formatLimit(plan.LinksLimit), formatLimit(plan.DomainsLimit),
		),
		Tag: "plan-upgraded",
	}
}

func cancellationSurveyEmail(ws *workspace.Workspace) email.SendEmailParams {
	return email.SendEmailParams{
		Subject: "Sorry to see you go — mind telling us why?",
		BodyHTML: fmt.Sprintf(
			"<p>Hey,</p>"+
				"<p>Your subscription for <strong>%s</strong> has been cancelled and the "+
				"workspace is back on the free plan. Your links keep working within the "+
				"free tier limits.</p>"+
				"<p>If you have 30 seconds, we'd love to hear what we could have done "+
				"better. Just reply to this email.</p>"+
				"<p>— The Dub team</p>",
			ws.Name,
		),
		Tag: "cancellation-survey",
	}
}

func formatLimit(limit int64) string {
	if limit == Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", limit)
}
