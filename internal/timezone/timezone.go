package timezone

import "time"

// Todo o motor trabalha num único calendário civil. A zona vem de
// config.TIMEZONE na inicialização e é injetada via availability.Calendar;
// nunca é lida do ambiente do processo.

const DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolve tz. Nome inválido cai para DefaultTimezone (e para UTC se
// nem ela existir no host).
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
