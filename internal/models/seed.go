package models

// SeedTasks returns the demo content plan shown before the operator saves their own.
func SeedTasks() []Task {
	return []Task{
		{ID: "1", Date: 26, Type: TaskVideo, Title: "Снять TikTok тренд", Description: `Музыка: "Bad Habit"`},
		{ID: "2", Date: 26, Type: TaskSocial, Title: "Stories: Анонс эфира", Description: "За 30 мин до старта", IsCompleted: true},
		{ID: "3", Date: 26, Type: TaskPhoto, Title: "Фото сет в белье", Description: "Для Twitter/X"},
		{ID: "4", Date: 27, Type: TaskSocial, Title: "Ответы на комментарии"},
		{ID: "5", Date: 28, Type: TaskVideo, Title: "Reels: Backstage"},
	}
}

// SeedSchedule returns the demo week schedule.
func SeedSchedule() []DaySchedule {
	return []DaySchedule{
		{Date: 24, IsWorking: true, StartTime: "16:00", EndTime: "00:00"},
		{Date: 25, Note: "Выходной"},
		{Date: 26, IsWorking: true, StartTime: "18:00", EndTime: "02:00", Note: "Тематический эфир"},
		{Date: 27, IsWorking: true, StartTime: "18:00", EndTime: "02:00"},
		{Date: 28, IsWorking: true, StartTime: "20:00", EndTime: "04:00", Note: "Ночная смена"},
		{Date: 29, Note: "Отгул"},
		{Date: 30, IsWorking: true, StartTime: "18:00", EndTime: "02:00"},
	}
}

// SeedGuides returns the built-in reference guides.
func SeedGuides() []Guide {
	return []Guide{
		{
			ID:      "1",
			Title:   "Подготовка рабочего места",
			Content: "Освещение, фон, чистота в кадре. Проверьте работу оборудования за 15 минут до начала смены.",
			Level:   GuideNovice,
		},
		{
			ID:      "2",
			Title:   "Настройка OBS и плагинов",
			Content: "Как подключить Lovense к OBS. Настройка алертов и виджетов для повышения вовлеченности.",
			Level:   GuideTechnical,
		},
		{
			ID:      "3",
			Title:   "Психология общения",
			Content: "Техники удержания пользователя в привате. Как переводить гостей в платную зону.",
			Level:   GuideAdvanced,
		},
	}
}
