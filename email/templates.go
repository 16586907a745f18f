package email

import "fmt"

type InterventionEmailProps struct {
	SessionMinutes  float64
	BrainrotPercent int
	Points          int
}

func GetInterventionEmailContent(props InterventionEmailProps) string {
	return GetParagraph("Nice pivot! You stepped away from the feed.") +
		GetParagraph(fmt.Sprintf("That session ran %.0f minutes with %d%% of content flagged as brainrot.", props.SessionMinutes, props.BrainrotPercent)) +
		GetParagraph(fmt.Sprintf("<strong>+%d points</strong> for choosing your inbox over the scroll.", props.Points))
}

type EmailLayoutProps struct {
	Content string
}

func GetEmailLayout(props EmailLayoutProps) string {
	return fmt.Sprintf(`
  <table role="presentation" border="0" cellpadding="0" cellspacing="0" style="border-collapse: separate; width: 100%%; background-color: #f6f6f6;" width="100%%">
    <tbody>
      <tr>
        <td style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top; padding: 24px;" valign="top">
          <div style="max-width: 580px; margin: 0 auto; background: #ffffff; border-radius: 4px; padding: 24px;">
            %s
          </div>
        </td>
      </tr>
    </tbody>
  </table>`, props.Content)
}

func GetParagraph(text string) string {
	return fmt.Sprintf(`<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 16px;">%s</p>`, text)
}
