//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Notify displays a toast notification using the Windows notification center.
func Notify(title, body string, opts Options) error {
	kind := "ToastText02"
	image := ""
	if icon := strings.TrimSpace(opts.IconPath); icon != "" {
		kind = "ToastImageAndText02"
		image = fmt.Sprintf(`$template.GetElementsByTagName("image").Item(0).SetAttribute("src", %s); `, psQuote(icon))
	}
	script := fmt.Sprintf(`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType=Windows Runtime] > $null; `+
		`$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::%s); `+
		`$texts = $template.GetElementsByTagName("text"); `+
		`$texts.Item(0).AppendChild($template.CreateTextNode(%s)) > $null; `+
		`$texts.Item(1).AppendChild($template.CreateTextNode(%s)) > $null; `+
		`%s`+
		`$toast = [Windows.UI.Notifications.ToastNotification]::new($template); `+
		`[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%s).Show($toast);`,
		kind, psQuote(title), psQuote(body), image, psQuote(AppName))
	return exec.Command("powershell.exe", "-NoProfile", "-Command", script).Run()
}
