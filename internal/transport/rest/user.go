package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"autocare/internal/domain"
)

// @Summary Текущий пользователь
// @Description Возвращает профиль авторизованного пользователя
// @Tags Пользователи
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} domain.User "Профиль пользователя"
// @Failure 401 {object} errorResponseBody "Пользователь не авторизован"
// @Failure 404 {object} errorResponseBody "Пользователь не найден"
// @Router /users/me [get]
func (h *Handler) getCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	user, err := h.services.User.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.logger.Warn("ошибка получения пользователя", zap.Int64("userId", userID), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, user)
}

// @Summary Получить пользователя по ID
// @Description Возвращает профиль пользователя по идентификатору
// @Tags Пользователи
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} domain.User "Профиль пользователя"
// @Failure 400 {object} errorResponseBody "Некорректный ID"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Пользователь не найден"
// @Router /users/{id} [get]
func (h *Handler) getUserByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID пользователя")
		return
	}

	userID, _ := getUserID(c)
	userRole, _ := getUserRole(c)
	if userID != id && userRole != domain.UserRoleAdmin {
		forbiddenResponse(c)
		return
	}

	user, err := h.services.User.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, user)
}

// @Summary Обновить пользователя
// @Description Обновляет данные пользователя
// @Tags Пользователи
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Param input body domain.UpdateUserDTO true "Данные для обновления"
// @Success 200 {object} messageResponseType "Сообщение об успешном обновлении"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Пользователь не найден"
// @Router /users/{id} [put]
func (h *Handler) updateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID пользователя")
		return
	}

	userID, _ := getUserID(c)
	userRole, _ := getUserRole(c)
	if userID != id && userRole != domain.UserRoleAdmin {
		forbiddenResponse(c)
		return
	}

	var input domain.UpdateUserDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	// активность аккаунта меняет только администратор
	if input.IsActive != nil && userRole != domain.UserRoleAdmin {
		input.IsActive = nil
	}

	if err := h.services.User.Update(c.Request.Context(), id, input); err != nil {
		h.logger.Warn("ошибка обновления пользователя", zap.Int64("userId", id), zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "пользователь обновлен")
}

// @Summary Смена пароля
// @Description Обновляет пароль пользователя после проверки старого
// @Tags Пользователи
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Param input body domain.PasswordUpdateDTO true "Старый и новый пароли"
// @Success 200 {object} messageResponseType "Сообщение об успешной смене"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 403 {object} errorResponseBody "Неверный старый пароль"
// @Router /users/{id}/password [put]
func (h *Handler) updatePassword(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID пользователя")
		return
	}

	userID, _ := getUserID(c)
	if userID != id {
		forbiddenResponse(c, "пароль можно менять только у своего аккаунта")
		return
	}

	var input domain.PasswordUpdateDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.User.UpdatePassword(c.Request.Context(), id, input); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "пароль обновлен")
}

// @Summary Создать пользователя
// @Description Создает пользователя с произвольной ролью (только администратор)
// @Tags Пользователи
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.CreateUserDTO true "Данные пользователя"
// @Success 201 {object} successResponseBody "ID созданного пользователя"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 409 {object} errorResponseBody "Пользователь уже существует"
// @Router /users [post]
func (h *Handler) createUser(c *gin.Context) {
	var input domain.CreateUserDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.User.Create(c.Request.Context(), input)
	if err != nil {
		h.logger.Warn("ошибка создания пользователя", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Список пользователей
// @Description Возвращает список пользователей с пагинацией (только администратор)
// @Tags Пользователи
// @Security ApiKeyAuth
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param page_size query int false "Размер страницы" default(20)
// @Success 200 {array} domain.User "Список пользователей"
// @Router /users [get]
func (h *Handler) getUsers(c *gin.Context) {
	page, pageSize := parsePagination(c)

	users, err := h.services.User.List(c.Request.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		h.logger.Error("ошибка получения списка пользователей", zap.Error(err))
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, users)
}

// @Summary Удалить пользователя
// @Description Удаляет пользователя (только администратор)
// @Tags Пользователи
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} messageResponseType "Сообщение об успешном удалении"
// @Failure 400 {object} errorResponseBody "Некорректный ID"
// @Failure 404 {object} errorResponseBody "Пользователь не найден"
// @Router /users/{id} [delete]
func (h *Handler) deleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID пользователя")
		return
	}

	if err := h.services.User.Delete(c.Request.Context(), id); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "пользователь удален")
}

func parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return page, pageSize
}
