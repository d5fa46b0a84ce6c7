package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
)

// payloadData feeds the notification templates.
type payloadData struct {
	RecipientName string
	Obligations   []payloadObligation
}

type payloadObligation struct {
	Title          string
	TaxType        string
	ReferenceMonth string
	DueDate        string
}

var notificationTemplates = map[portssvc.NotificationKind]*template.Template{
	portssvc.KindNewDocument: template.Must(template.New("new_document").Parse(`
<p>Olá{{if .RecipientName}}, {{.RecipientName}}{{end}},</p>
<p>Um novo documento fiscal foi disponibilizado:</p>
<ul>
{{range .Obligations}}<li><strong>{{.Title}}</strong>{{if .TaxType}} ({{.TaxType}}){{end}} — competência {{.ReferenceMonth}}, vencimento {{.DueDate}}</li>
{{end}}</ul>
<p>Acesse o portal para visualizar o documento.</p>`)),

	portssvc.KindDueReminder: template.Must(template.New("due_reminder").Parse(`
<p>Olá{{if .RecipientName}}, {{.RecipientName}}{{end}},</p>
<p>Os documentos abaixo vencem nos próximos dias e ainda não foram visualizados:</p>
<ul>
{{range .Obligations}}<li><strong>{{.Title}}</strong>{{if .TaxType}} ({{.TaxType}}){{end}} — vencimento {{.DueDate}}</li>
{{end}}</ul>
<p>Acesse o portal e confira antes do vencimento.</p>`)),

	portssvc.KindUnviewedAlert: template.Must(template.New("unviewed_alert").Parse(`
<p>Olá{{if .RecipientName}}, {{.RecipientName}}{{end}},</p>
<p><strong>Atenção:</strong> os documentos abaixo foram publicados há mais de dois dias e permanecem sem visualização:</p>
<ul>
{{range .Obligations}}<li><strong>{{.Title}}</strong>{{if .TaxType}} ({{.TaxType}}){{end}} — vencimento {{.DueDate}}</li>
{{end}}</ul>
<p>A visualização destes documentos é importante para manter sua empresa em dia.</p>`)),
}

var notificationSubjects = map[portssvc.NotificationKind]string{
	portssvc.KindNewDocument:   "Novo documento disponível",
	portssvc.KindDueReminder:   "Documentos com vencimento próximo",
	portssvc.KindUnviewedAlert: "Documentos pendentes de visualização",
}

// renderPayload builds the subject, HTML body and plain-text fallback for a
// notification of the given kind.
func renderPayload(kind portssvc.NotificationKind, recipientName string, obligations []domain.Obligation) (subject, htmlBody, textBody string, err error) {
	tmpl, ok := notificationTemplates[kind]
	if !ok {
		return "", "", "", fmt.Errorf("unknown notification kind %q", kind)
	}

	data := payloadData{RecipientName: recipientName}
	for _, o := range obligations {
		po := payloadObligation{
			Title:          o.Title,
			ReferenceMonth: o.ReferenceMonth,
			DueDate:        o.DueDate.Format("02/01/2006"),
		}
		if o.TaxType != nil {
			po.TaxType = *o.TaxType
		}
		data.Obligations = append(data.Obligations, po)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("failed to render notification payload: %w", err)
	}

	var text strings.Builder
	for _, po := range data.Obligations {
		fmt.Fprintf(&text, "- %s (%s) vencimento %s\n", po.Title, po.ReferenceMonth, po.DueDate)
	}

	return notificationSubjects[kind], buf.String(), text.String(), nil
}
