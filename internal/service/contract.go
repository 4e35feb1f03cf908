package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/repository"
)

var contractTemplate = template.Must(template.New("contract").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>WOTRO_CONTRAT_{{.ShortRef}}</title>
<style>
body { font-family: Helvetica, sans-serif; padding: 50px; color: #0f172a; line-height: 1.5; }
.header { border-bottom: 5px solid #2563eb; padding-bottom: 20px; margin-bottom: 30px; display: flex; justify-content: space-between; align-items: center; }
.logo { font-size: 32px; font-weight: 900; font-style: italic; color: #2563eb; }
.title { text-transform: uppercase; font-size: 18px; font-weight: 900; text-align: right; }
.section { margin-bottom: 25px; padding: 20px; border-radius: 20px; border: 1px solid #e2e8f0; background: #f8fafc; }
.label { font-size: 10px; font-weight: 900; text-transform: uppercase; color: #64748b; margin-bottom: 5px; }
.value { font-size: 14px; font-weight: 700; color: #1e293b; }
.grid { display: grid; grid-template-columns: 1fr 1fr; gap: 20px; }
.total { background: #2563eb; color: #fff; }
.footer { margin-top: 50px; font-size: 9px; color: #94a3b8; border-top: 1px solid #e2e8f0; padding-top: 20px; }
.stamp { border: 3px solid #2563eb; color: #2563eb; padding: 10px; display: inline-block; font-weight: 900; transform: rotate(-5deg); border-radius: 10px; }
</style>
</head>
<body onload="window.print()">
<div class="header">
  <div class="logo">WOTRO.</div>
  <div class="title">Contrat de Mise à Disposition<br><span style="color:#2563eb">#{{.Reference}}</span></div>
</div>
<div class="stamp">VALIDE / CONFIRMÉ</div>
<div class="section"><p class="label">Véhicule loué</p><p class="value">{{.VehicleName}}</p></div>
<div class="grid">
  <div class="section"><p class="label">Locataire (Client)</p><p class="value">{{.TenantName}}</p></div>
  <div class="section"><p class="label">Propriétaire (Hôte)</p><p class="value">{{.HostName}}</p></div>
</div>
<div class="grid">
  <div class="section"><p class="label">Début de location</p><p class="value">{{.StartDate}}</p></div>
  <div class="section"><p class="label">Fin de location</p><p class="value">{{.EndDate}}</p></div>
</div>
<div class="section"><p class="label">Lieu de retrait &amp; retour</p><p class="value">{{.PickupAddress}}</p></div>
<div class="section total"><p class="label">Montant total de la transaction</p><p class="value">{{.Total}} FCFA</p></div>
<div class="footer">Document généré numériquement par Wotro. Ce contrat engage le locataire à respecter le code de la route et les conditions d'utilisation du véhicule. L'hôte doit vérifier la pièce d'identité et le permis original avant la remise des clés.</div>
</body>
</html>
`))

type contractView struct {
	Reference     string
	ShortRef      string
	VehicleName   string
	TenantName    string
	HostName      string
	StartDate     string
	EndDate       string
	PickupAddress string
	Total         string
}

type contractService struct {
	bookingRepo repository.BookingRepository
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
}

func NewContractService(bookingRepo repository.BookingRepository, vehicleRepo repository.VehicleRepository, userRepo repository.UserRepository) ContractService {
	return &contractService{bookingRepo: bookingRepo, vehicleRepo: vehicleRepo, userRepo: userRepo}
}

func (s *contractService) GenerateContract(ctx context.Context, sess *domain.Session, bookingID string) ([]byte, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fromRepo(err, "booking")
	}
	if !b.IsParticipant(sess.UID) && !sess.IsAdmin() {
		return nil, fmt.Errorf("%w: not a participant of this booking", ErrForbidden)
	}
	if b.Status != domain.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: contracts exist only for confirmed rentals", ErrConflict)
	}

	view := contractView{
		Reference:     prefix(b.ID, 8),
		ShortRef:      prefix(b.ID, 5),
		VehicleName:   b.VehicleName,
		TenantName:    b.TenantName,
		HostName:      "Hôte Wotro",
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		PickupAddress: "À convenir avec l'hôte",
		Total:         FormatFCFA(b.TotalPrice),
	}
	if host, err := s.userRepo.GetByID(ctx, b.OwnerID); err == nil {
		view.HostName = host.DisplayName(view.HostName)
	}
	if v, err := s.vehicleRepo.GetByID(ctx, b.VehicleID); err == nil && v.ExactAddress != "" {
		view.PickupAddress = v.ExactAddress
	}

	var buf bytes.Buffer
	if err := contractTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// FormatFCFA groups thousands with a space, e.g. 135000 -> "135 000".
func FormatFCFA(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var sb strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
