package flow

import (
	"fmt"
	"html"
	"regbot/entity"
	"strings"
)

// Replies are sent with HTML parse mode; user supplied values go through esc.
const (
	textFallback    = "Xatolik yuz berdi. /start buyrug'ini bosing."
	textRestarted   = "Yangi ro'yxatdan o'tish boshlandi."
	textNoChannel   = "Xatolik: Kanal sozlamasi topilmadi."
	textCheckButton = "Obuna bo'lgach, 'Tekshirish' tugmasini bosing."
	textChannelLink = "Telegram kanalga o'tish"

	textAskFullName   = "Ism va familiyangizni kiriting"
	textFullNameEmpty = "Iltimos, ism va familiyangizni kiriting."
	textAskSchool     = "Maktab nomini kiriting (masalan: Guliston shahar 10-maktab yoki 23-maktab)."
	textSchoolEmpty   = "Iltimos, maktab nomini kiriting."
	textAskGrade      = "Sinfingizni tanlang (1-10)"
	textGradeInvalid  = "Iltimos, 1 dan 10 gacha bo'lgan sinfni tanlang."
	textAskSubject    = "Fanlarni tanlang:"
	textSubjectOneOf  = "Iltimos, quyidagi fanlardan birini tanlang: "

	textScSubscribed   = "✅ Obuna tasdiqlandi!\n\nIsm va familiyangizni kiriting:"
	textScAskSubjects  = "Qaysi fanlarni o'qimoqchisiz yoki o'qiyapsiz?\n\n(Masalan: Matematika, Fizika, Ingliz tili)"
	textScSubjectsNone = "Iltimos, fanlarni kiriting."
	textScAskPhone     = "Telefon raqamingizni kiriting:\n\n(Masalan: +998901234567 yoki 901234567)"
	textScPhoneEmpty   = "Iltimos, telefon raqamingizni kiriting."
	textScPhoneInvalid = "Iltimos, to'g'ri telefon raqam kiriting."
)

func esc(s string) string {
	return html.EscapeString(s)
}

func channelHandle(l Links) string {
	name := strings.TrimPrefix(l.ChannelUsername, "@")
	if name == "" {
		return ""
	}
	return "@" + name
}

func generalSubscriptionIntro(l Links) string {
	return fmt.Sprintf(
		"Ro'yxatdan o'tishni yakunlash uchun quyidagi kanallarga obuna bo'ling:\n\n%s\n\n%s",
		esc(channelHandle(l)), textCheckButton,
	)
}

func studyCenterSubscriptionIntro(l Links) string {
	return fmt.Sprintf(
		"👋 Salom! Ideal Study o'quv markaziga xush kelibsiz!\n\n"+
			"Ro'yxatdan o'tish uchun quyidagi Telegram kanalga obuna bo'ling:\n\n📢 %s\n\n%s",
		esc(channelHandle(l)), textCheckButton,
	)
}

func notSubscribed(l Links) string {
	return fmt.Sprintf(
		"❌ Siz hali Telegram kanalga obuna bo'lmadingiz.\n\nIltimos, %s kanaliga obuna bo'ling va yana 'Tekshirish' tugmasini bosing.",
		esc(channelHandle(l)),
	)
}

func generalFields(reg *entity.Registration) string {
	return fmt.Sprintf("Ism: %s\nMaktab: %s\nSinf: %d\nFanlar: %s",
		esc(reg.FullName), esc(reg.School), reg.Grade, esc(reg.Subjects))
}

func studyCenterFields(reg *entity.Registration) string {
	return fmt.Sprintf("Ism: %s\nFanlar: %s\nTelefon: %s",
		esc(reg.FullName), esc(reg.Subjects), esc(reg.Phone))
}

func generalCompleted(reg *entity.Registration) string {
	return "✅ Ro'yxatdan muvaffaqiyatli o'tdingiz!\n\n" + generalFields(reg) +
		"\n\nQo'shimcha ma'lumotlar keyinroq yuboriladi."
}

func generalAlready(reg *entity.Registration) string {
	return "Siz allaqachon ro'yxatdan o'tgansiz!\n\n" + generalFields(reg) +
		"\n\nQayta ro'yxatdan o'tish uchun /restart buyrug'ini bosing."
}

func studyCenterCompleted(reg *entity.Registration) string {
	return "✅ Ro'yxatdan muvaffaqiyatli o'tdingiz!\n\n" + studyCenterFields(reg) +
		"\n\n📞 Sizga adminlarimiz tez orada bog'lanishadi.\nIdeal Study o'quv markazi"
}

func studyCenterAlready(reg *entity.Registration) string {
	return "Salom! Siz allaqachon ro'yxatdan o'tgansiz.\n\n" + studyCenterFields(reg) +
		"\n\nQayta ro'yxatdan o'tish uchun /restart buyrug'ini bosing."
}
