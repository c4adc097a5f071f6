// Package report renders a reading as a two-page A4 PDF.
package report

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"cosmonumero/internal/interpretation"
	"cosmonumero/internal/numerology"
)

type rgb struct{ r, g, b int }

var (
	purple     = rgb{88, 44, 131}
	violet     = rgb{132, 70, 175}
	rose       = rgb{194, 81, 128}
	lavender   = rgb{245, 240, 255}
	footerGrey = rgb{128, 128, 128}
)

const (
	headerTitle = "ANÁLISE NUMEROLÓGICA PERSONALIZADA"
	marginLeft  = 15.0
	marginTop   = 30.0
	lineHeight  = 6.0
	contentW    = 180.0
)

// Input is everything a report shows.
type Input struct {
	FullName    string
	BirthDate   numerology.BirthDate
	Result      numerology.Result
	Narrative   interpretation.Narrative
	GeneratedAt time.Time
}

// Renderer produces report PDFs. It is safe for concurrent use.
type Renderer struct {
	title  string
	author string
}

func NewRenderer(title, author string) *Renderer {
	if title == "" {
		title = "Análise Numerológica"
	}
	return &Renderer{title: title, author: author}
}

// Render builds the PDF in memory.
func (r *Renderer) Render(in Input) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	w := &writer{pdf: pdf, tr: tr}

	pdf.SetCreator(r.author, true)
	pdf.SetAuthor(r.author, true)
	pdf.SetTitle(r.title+" para "+in.FullName, true)
	pdf.SetSubject("Análise Numerológica", true)
	pdf.SetKeywords("numerologia, análise, caminho de vida, destino", true)
	if !in.GeneratedAt.IsZero() {
		pdf.SetCreationDate(in.GeneratedAt)
		pdf.SetModificationDate(in.GeneratedAt)
	}

	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	pdf.SetHeaderFuncMode(w.header, true)
	pdf.SetFooterFunc(func() { w.footer(in.GeneratedAt) })

	pdf.AddPage()
	w.personal(in.FullName, in.BirthDate)

	w.sectionTitle("INTRODUÇÃO À SUA ANÁLISE NUMEROLÓGICA")
	w.text("A Numerologia é uma antiga ciência que estuda a influência que os números exercem em nossas vidas. " +
		"Cada número possui uma vibração específica que revela aspectos da nossa personalidade, desafios e oportunidades. " +
		"Esta análise foi criada especialmente para você, baseada em seu nome completo e data de nascimento, " +
		"revelando padrões energéticos que influenciam sua jornada.")

	n := in.Narrative
	w.numberBox(in.Result.LifePathNumber, "NÚMERO DO CAMINHO DE VIDA",
		"O Número do Caminho de Vida é derivado da sua data de nascimento e representa seu propósito maior nesta vida, "+
			"seus desafios e lições centrais. É a energia que você veio desenvolver e expressar nesta encarnação.\n\n"+n.LifePathMeaning,
		purple)

	w.sectionTitle("TALENTOS E FORÇAS NATURAIS")
	w.text(n.LifePathTalents)

	w.numberBox(in.Result.DestinyNumber, "NÚMERO DE DESTINO",
		"O Número de Destino é calculado a partir das letras do seu nome completo e revela seus talentos, habilidades "+
			"e o que você veio realizar nesta vida. Indica o caminho que sua alma escolheu seguir.\n\n"+n.DestinyMeaning,
		violet)

	w.numberBox(in.Result.PersonalYearNumber, "ANO PESSOAL",
		"O Ano Pessoal indica a energia dominante no seu ciclo atual, desde seu último aniversário até o próximo. "+
			"Compreender esta energia ajuda a fluir com as oportunidades e desafios do momento presente.\n\n"+n.PersonalYearMeaning,
		rose)

	pdf.AddPage()

	w.sectionTitle("DESAFIOS ATUAIS")
	w.text(n.CurrentChallenges)

	w.sectionTitle("OPORTUNIDADES ATUAIS")
	w.text(n.CurrentOpportunities)

	w.sectionTitle("SEU RITUAL DIÁRIO PERSONALIZADO")
	w.text("Este ritual foi desenhado especificamente para seu Número do Caminho de Vida. A prática regular deste " +
		"exercício ajudará você a se alinhar com sua energia natural e propósito de vida, potencializando seu " +
		"crescimento pessoal e bem-estar.")
	w.ritual(n.DailyRitual)

	w.sectionTitle("CONSIDERAÇÕES FINAIS")
	w.text("Lembre-se que você sempre tem livre-arbítrio para escolher como utilizar estas energias numéricas em sua vida. " +
		"Esta análise oferece orientações e insights sobre potenciais e tendências, mas você é o co-criador do seu caminho. " +
		"Use este conhecimento como uma ferramenta de autoconhecimento e crescimento pessoal, integrando-o com sabedoria em sua jornada única.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9]`)

// DownloadFilename is the attachment name offered for a customer's report.
func DownloadFilename(fullName string) string {
	return "Analise_Numerologica_" + unsafeFilename.ReplaceAllString(fullName, "_") + ".pdf"
}

// writer groups the drawing helpers around one document.
type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *writer) textColor(c rgb) { w.pdf.SetTextColor(c.r, c.g, c.b) }

func (w *writer) header() {
	pageW, _ := w.pdf.GetPageSize()
	w.pdf.SetFillColor(purple.r, purple.g, purple.b)
	w.pdf.Rect(0, 0, pageW, 25, "F")
	w.pdf.SetFont("Helvetica", "B", 18)
	w.pdf.SetTextColor(255, 255, 255)
	w.pdf.SetXY(marginLeft, 8)
	w.pdf.CellFormat(0, 10, w.tr(headerTitle), "", 0, "C", false, 0, "")
	w.pdf.SetXY(marginLeft, marginTop)
}

func (w *writer) footer(generatedAt time.Time) {
	w.pdf.SetY(-15)
	w.pdf.SetFont("Helvetica", "I", 8)
	w.textColor(footerGrey)
	w.pdf.CellFormat(0, 5, w.tr("Página "+strconv.Itoa(w.pdf.PageNo())+"/{nb}"), "", 1, "C", false, 0, "")
	if !generatedAt.IsZero() {
		w.pdf.CellFormat(0, 5, "Gerado em "+generatedAt.Format("02/01/2006 15:04:05"), "", 0, "C", false, 0, "")
	}
}

func (w *writer) personal(fullName string, bd numerology.BirthDate) {
	w.pdf.SetFont("Helvetica", "B", 16)
	w.textColor(purple)
	w.pdf.CellFormat(0, 10, w.tr("Análise Personalizada para:"), "", 1, "C", false, 0, "")
	w.pdf.SetFont("Helvetica", "B", 20)
	w.pdf.CellFormat(0, 10, w.tr(fullName), "", 1, "C", false, 0, "")
	w.pdf.SetFont("Helvetica", "", 12)
	w.pdf.CellFormat(0, 10, "Data de Nascimento: "+bd.Display(), "", 1, "C", false, 0, "")
	w.pdf.Ln(5)
}

func (w *writer) sectionTitle(title string) {
	w.pdf.SetFont("Helvetica", "B", 14)
	w.textColor(purple)
	w.pdf.CellFormat(0, 10, w.tr(title), "", 1, "L", false, 0, "")
	w.pdf.SetTextColor(0, 0, 0)
}

func (w *writer) text(body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	w.pdf.SetFont("Helvetica", "", 11)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.MultiCell(0, lineHeight, w.tr(body), "", "J", false)
	w.pdf.Ln(5)
}

func (w *writer) numberBox(number int, title, description string, c rgb) {
	const radius = 10.0
	_, pageH := w.pdf.GetPageSize()
	if w.pdf.GetY()+2*radius+20 > pageH-20 {
		w.pdf.AddPage()
	}
	x, y := w.pdf.GetX(), w.pdf.GetY()

	w.pdf.SetLineWidth(0.5)
	w.pdf.SetDrawColor(c.r, c.g, c.b)
	w.pdf.SetFillColor(c.r, c.g, c.b)
	w.pdf.Circle(x+radius, y+radius, radius, "F")

	w.pdf.SetFont("Helvetica", "B", 14)
	w.pdf.SetTextColor(255, 255, 255)
	w.pdf.SetXY(x, y+5)
	w.pdf.CellFormat(2*radius, 10, strconv.Itoa(number), "", 0, "C", false, 0, "")

	w.textColor(c)
	w.pdf.SetXY(x+25, y+5)
	w.pdf.CellFormat(0, 10, w.tr(title), "", 1, "L", false, 0, "")

	w.pdf.SetXY(x, y+2*radius+3)
	w.pdf.SetFont("Helvetica", "", 11)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.MultiCell(0, lineHeight, w.tr(description), "", "J", false)
	w.pdf.Ln(5)
}

// widthRunes turns translated cp1252 text into one rune per byte, the form
// SplitText measures against the core font width table.
func widthRunes(translated string) string {
	runes := make([]rune, len(translated))
	for i := 0; i < len(translated); i++ {
		runes[i] = rune(translated[i])
	}
	return string(runes)
}

func (w *writer) ritual(body string) {
	const pad = 10.0
	w.pdf.SetFont("Helvetica", "", 11)
	text := w.tr(body)
	lines := len(w.pdf.SplitText(widthRunes(text), contentW-2*pad))
	boxH := 20 + float64(lines)*lineHeight
	if boxH < 40 {
		boxH = 40
	}

	_, pageH := w.pdf.GetPageSize()
	if w.pdf.GetY()+boxH > pageH-20 {
		w.pdf.AddPage()
	}
	x, y := w.pdf.GetX(), w.pdf.GetY()

	w.pdf.SetLineWidth(0.5)
	w.pdf.SetDrawColor(purple.r, purple.g, purple.b)
	w.pdf.SetFillColor(lavender.r, lavender.g, lavender.b)
	w.pdf.RoundedRect(x, y, contentW, boxH, 5, "1234", "DF")

	w.pdf.SetFont("Helvetica", "B", 12)
	w.textColor(purple)
	w.pdf.SetXY(x+5, y+4)
	w.pdf.CellFormat(contentW-10, 10, w.tr("SEU RITUAL DIÁRIO PERSONALIZADO"), "", 1, "C", false, 0, "")

	w.pdf.SetFont("Helvetica", "", 11)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.SetXY(x+pad, y+15)
	w.pdf.MultiCell(contentW-2*pad, lineHeight, text, "", "J", false)
	w.pdf.SetY(y + boxH + 5)
}
